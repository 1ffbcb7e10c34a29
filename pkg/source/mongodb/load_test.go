package mongodb

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/matzehuels/kintree/pkg/errors"
)

// memCollection serves documents from memory the way a cursor decodes them.
type memCollection struct {
	docs  []bson.M
	err   error
	block bool
}

func (c memCollection) findAll(ctx context.Context, out any) error {
	if c.block {
		<-ctx.Done()
		return ctx.Err()
	}
	if c.err != nil {
		return c.err
	}
	raw, err := bson.Marshal(bson.M{"docs": c.docs})
	if err != nil {
		return err
	}
	return bson.Raw(raw).Lookup("docs").Unmarshal(out)
}

func memSource(persons, unions, links collection) *Source {
	return &Source{
		opts:    Options{Timeout: time.Minute}.WithDefaults(),
		persons: persons,
		unions:  unions,
		links:   links,
	}
}

func TestLoadMergesCollections(t *testing.T) {
	src := memSource(
		memCollection{docs: []bson.M{
			{"_id": "a", "name": "Ada", "gender": "FEMALE"},
			{"_id": "b", "name": "Bo", "gender": "MALE"},
			{"name": "no id"},
		}},
		memCollection{docs: []bson.M{
			{"_id": "u1", "husband": "b", "wife": "a", "marriageDate": "1950-06-01"},
		}},
		memCollection{docs: []bson.M{
			{"_id": "l1", "parent": "u1", "child": bson.M{"_id": "k", "name": "Kit"}, "isAdopted": true},
		}},
	)

	snap, err := src.Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(snap.Persons) != 2 || len(snap.Unions) != 1 || len(snap.Links) != 1 {
		t.Fatalf("counts = %d/%d/%d, want 2/1/1", len(snap.Persons), len(snap.Unions), len(snap.Links))
	}
	if got := snap.Unions[0].Wife.ID(); got != "a" {
		t.Errorf("wife = %q, want a", got)
	}
	child, ok := snap.Links[0].Child.Embedded()
	if !ok || child.Name != "Kit" {
		t.Errorf("embedded child = %+v, %v", child, ok)
	}
	if !snap.Links[0].IsAdopted {
		t.Error("IsAdopted = false, want true")
	}
}

func TestLoadFailure(t *testing.T) {
	cause := stderrors.New("connection reset")
	src := memSource(
		memCollection{block: true},
		memCollection{err: cause},
		memCollection{block: true},
	)

	done := make(chan error, 1)
	go func() {
		_, err := src.Load(context.Background())
		done <- err
	}()

	select {
	case err := <-done:
		if !errors.Is(err, errors.ErrCodeSourceUnavailable) {
			t.Errorf("err = %v, want SOURCE_UNAVAILABLE", err)
		}
		if !stderrors.Is(err, cause) {
			t.Errorf("err = %v, should wrap the collection error", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Load did not cancel the other reads after a failure")
	}
}

func TestLoadCanceled(t *testing.T) {
	src := memSource(memCollection{block: true}, memCollection{block: true}, memCollection{block: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := src.Load(ctx)
	if !errors.Is(err, errors.ErrCodeSourceUnavailable) || !stderrors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want SOURCE_UNAVAILABLE wrapping context.Canceled", err)
	}
}

func TestCloseWithoutClient(t *testing.T) {
	if err := memSource(nil, nil, nil).Close(context.Background()); err != nil {
		t.Errorf("Close = %v", err)
	}
}
