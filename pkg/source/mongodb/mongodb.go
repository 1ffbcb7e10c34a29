// Package mongodb loads family snapshots from the MongoDB collections of the
// family service: persons, spouse relationships and parent-child links.
//
// The three collections are read concurrently and merged into one
// [family.Snapshot]. Document ids and references may be ObjectIDs or strings,
// and a reference may be a populated sub-document.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/errors"
	"github.com/matzehuels/kintree/pkg/family"
)

// Default collection names.
const (
	DefaultDatabase          = "family"
	DefaultPersonsCollection = "people"
	DefaultUnionsCollection  = "spouserelationships"
	DefaultLinksCollection   = "parentchildren"
	DefaultTimeout           = 30 * time.Second
)

// Options configures the MongoDB source.
type Options struct {
	URI      string
	Database string
	Persons  string
	Unions   string
	Links    string
	// Timeout bounds one Load, covering all three collection reads.
	Timeout time.Duration
}

// WithDefaults fills unset fields.
func (o Options) WithDefaults() Options {
	if o.Database == "" {
		o.Database = DefaultDatabase
	}
	if o.Persons == "" {
		o.Persons = DefaultPersonsCollection
	}
	if o.Unions == "" {
		o.Unions = DefaultUnionsCollection
	}
	if o.Links == "" {
		o.Links = DefaultLinksCollection
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

// Source reads snapshots from MongoDB.
type Source struct {
	client  *mongo.Client
	opts    Options
	persons collection
	unions  collection
	links   collection
}

// collection reads every document of one collection.
type collection interface {
	// findAll decodes all documents into out, a pointer to a slice.
	findAll(ctx context.Context, out any) error
}

type mongoCollection struct{ coll *mongo.Collection }

func (c mongoCollection) findAll(ctx context.Context, out any) error {
	cur, err := c.coll.Find(ctx, bson.D{})
	if err != nil {
		return fmt.Errorf("find %s: %w", c.coll.Name(), err)
	}
	if err := cur.All(ctx, out); err != nil {
		return fmt.Errorf("decode %s: %w", c.coll.Name(), err)
	}
	return nil
}

// Open connects to MongoDB and pings the primary, retrying transient
// failures.
func Open(ctx context.Context, opts Options) (*Source, error) {
	if err := errors.ValidateURL(opts.URI, "mongodb", "mongodb+srv"); err != nil {
		return nil, err
	}
	opts = opts.WithDefaults()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(opts.URI))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "mongodb client")
	}

	err = cache.RetryWithBackoff(ctx, func() error {
		pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pctx, nil); err != nil {
			return cache.Retryable(err)
		}
		return nil
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "connect to mongodb")
	}

	db := client.Database(opts.Database)
	return &Source{
		client:  client,
		opts:    opts,
		persons: mongoCollection{db.Collection(opts.Persons)},
		unions:  mongoCollection{db.Collection(opts.Unions)},
		links:   mongoCollection{db.Collection(opts.Links)},
	}, nil
}

// Load reads the three collections concurrently.
func (s *Source) Load(ctx context.Context) (*family.Snapshot, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	var (
		persons []personDoc
		unions  []unionDoc
		links   []linkDoc
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return s.persons.findAll(gctx, &persons) })
	g.Go(func() error { return s.unions.findAll(gctx, &unions) })
	g.Go(func() error { return s.links.findAll(gctx, &links) })
	if err := g.Wait(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSourceUnavailable, err, "load from mongodb %s", s.opts.Database)
	}

	return buildSnapshot(persons, unions, links), nil
}

// Close disconnects the client.
func (s *Source) Close(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	return s.client.Disconnect(ctx)
}

// CacheKey identifies the database for snapshot caching. Credentials in the
// URI are not part of the key.
func (s *Source) CacheKey() string {
	return fmt.Sprintf("mongodb:%s/%s,%s,%s", s.opts.Database, s.opts.Persons, s.opts.Unions, s.opts.Links)
}

func (s *Source) String() string { return "mongodb:" + s.opts.Database }
