package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"codeprep/internal/common"
	"codeprep/internal/domain/model"
)

func TestMemoryStorePutGetDelete(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	ctx := context.Background()

	cases := []model.TestCase{{Input: "2 3", ExpectedOutput: "5"}}
	if err := s.Put(ctx, "p1", cases); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}

	got, err := s.Get(ctx, "p1")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if len(got) != 1 || got[0].Input != "2 3" || got[0].ExpectedOutput != "5" {
		t.Fatalf("Get returned %+v", got)
	}

	if err := s.Delete(ctx, "p1"); err != nil {
		t.Fatalf("Delete returned error: %v", err)
	}
	if _, err := s.Get(ctx, "p1"); !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("Get after Delete = %v, want ErrNotFound", err)
	}
}

func TestMemoryStorePutRejectsDuplicateID(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, "p1", []model.TestCase{{Input: "1", ExpectedOutput: "1"}}); err != nil {
		t.Fatalf("first Put returned error: %v", err)
	}
	err := s.Put(ctx, "p1", []model.TestCase{{Input: "2", ExpectedOutput: "2"}})
	if !errors.Is(err, common.ErrConflict) {
		t.Fatalf("second Put = %v, want ErrConflict", err)
	}
}

func TestMemoryStoreDeleteIsIdempotent(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()

	if err := s.Delete(context.Background(), "never-existed"); err != nil {
		t.Fatalf("Delete of missing id returned error: %v", err)
	}
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	ctx := context.Background()

	if err := s.Put(ctx, "p1", []model.TestCase{{Input: "1", ExpectedOutput: "1"}}); err != nil {
		t.Fatalf("Put returned error: %v", err)
	}
	got, _ := s.Get(ctx, "p1")
	got[0].ExpectedOutput = "tampered"

	again, _ := s.Get(ctx, "p1")
	if again[0].ExpectedOutput != "1" {
		t.Fatal("stored case sequence was mutated through a Get result")
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	t.Parallel()
	s := NewMemoryStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("p%d", i)
			if err := s.Put(ctx, id, []model.TestCase{{Input: "in", ExpectedOutput: "out"}}); err != nil {
				t.Errorf("Put(%s): %v", id, err)
				return
			}
			if _, err := s.Get(ctx, id); err != nil {
				t.Errorf("Get(%s): %v", id, err)
				return
			}
			if err := s.Delete(ctx, id); err != nil {
				t.Errorf("Delete(%s): %v", id, err)
			}
		}(i)
	}
	wg.Wait()
}
