package session

import (
	"testing"
)

func str(s string) *string { return &s }

func TestAnswerStore_SetMarksDirty(t *testing.T) {
	s := NewAnswerStore([]uint{1, 2, 3})
	s.Set(2, str("b"))
	s.Set(1, str("a"))

	dirty := s.ListDirty()
	if len(dirty) != 2 || dirty[0].QuestionID != 1 || dirty[1].QuestionID != 2 {
		t.Fatalf("expected dirty [1 2] in question order, got %+v", dirty)
	}
	if got := s.Get(2); got == nil || *got != "b" {
		t.Fatalf("Get(2) = %v", got)
	}
	if s.Get(3) != nil {
		t.Fatalf("untouched question must be unanswered")
	}
}

func TestAnswerStore_EraseKeepsEntry(t *testing.T) {
	s := NewAnswerStore([]uint{1})
	s.Set(1, str("a"))
	s.ClearDirty()
	s.Set(1, nil)

	if s.Get(1) != nil {
		t.Fatalf("expected erased answer")
	}
	dirty := s.ListDirty()
	if len(dirty) != 1 || dirty[0].Value != nil {
		t.Fatalf("erase should be a dirty nil entry, got %+v", dirty)
	}
	if len(s.Snapshot()) != 1 {
		t.Fatalf("erase must not remove the entry")
	}
}

func TestAnswerStore_MergeNeverOverwritesLocalEdits(t *testing.T) {
	s := NewAnswerStore([]uint{1, 2})
	s.Set(1, str("local"))
	s.Merge([]Entry{
		{QuestionID: 1, Value: str("stale")},
		{QuestionID: 2, Value: str("saved")},
	})

	if got := s.Get(1); got == nil || *got != "local" {
		t.Fatalf("local edit lost: %v", got)
	}
	if got := s.Get(2); got == nil || *got != "saved" {
		t.Fatalf("loaded value not applied: %v", got)
	}
	if s.IsDirty(2) {
		t.Fatalf("merged values are not dirty")
	}
}

func TestAnswerStore_MergeKeepsLocalErase(t *testing.T) {
	s := NewAnswerStore([]uint{1})
	s.Set(1, nil)
	s.Merge([]Entry{{QuestionID: 1, Value: str("stale")}})
	if s.Get(1) != nil {
		t.Fatalf("local erase was overwritten by reload")
	}
}

func TestAnswerStore_ClearDirtyForKeepsNewerEdits(t *testing.T) {
	s := NewAnswerStore([]uint{1, 2})
	s.Set(1, str("a"))
	s.Set(2, str("b"))
	flushed := s.ListDirty()

	// edit arrives while the flush is in flight
	s.Set(2, str("c"))
	s.ClearDirtyFor(flushed)

	if s.IsDirty(1) {
		t.Fatalf("saved entry should be clean")
	}
	if !s.IsDirty(2) {
		t.Fatalf("entry edited during flush must stay dirty")
	}
}

func TestAnswerStore_ReturnsCopies(t *testing.T) {
	s := NewAnswerStore([]uint{1})
	v := str("a")
	s.Set(1, v)
	*v = "mutated"
	got := s.Get(1)
	*got = "also mutated"
	if again := s.Get(1); *again != "a" {
		t.Fatalf("store shares memory with callers: %q", *again)
	}
}
