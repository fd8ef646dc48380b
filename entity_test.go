package cellar

import "testing"

func TestEntityDirectory_NewAndDelete(t *testing.T) {
	d := NewEntityDirectory()

	e1 := d.New()
	if e1.Index() == 0 {
		t.Fatalf("index 0 must never be allocated, got %v", e1)
	}
	if !d.IsLive(e1) {
		t.Fatalf("expected %v to be live", e1)
	}

	d.Delete(e1)
	if d.IsLive(e1) {
		t.Fatalf("expected %v to no longer be live after delete", e1)
	}

	e2 := d.New()
	if e2.Index() != e1.Index() {
		t.Fatalf("expected freed index %d to be recycled, got %d", e1.Index(), e2.Index())
	}
	if e2.Generation() != e1.Generation()+1 {
		t.Fatalf("expected recycled index to bump generation: got %d, want %d", e2.Generation(), e1.Generation()+1)
	}
	if d.IsLive(e1) {
		t.Fatalf("stale handle %v must not report live after recycling", e1)
	}
}

func TestEntityDirectory_NewWithID(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(d *EntityDirectory) EntityID
		wantErr bool
	}{
		{
			name: "reserved index zero",
			setup: func(d *EntityDirectory) EntityID {
				return newEntityID(0, 0)
			},
			wantErr: true,
		},
		{
			name: "fresh high index",
			setup: func(d *EntityDirectory) EntityID {
				return newEntityID(500, 1)
			},
			wantErr: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewEntityDirectory()
			id := tt.setup(d)
			got, err := d.NewWithID(id)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got entity %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != id {
				t.Fatalf("expected NewWithID to return %v, got %v", id, got)
			}
		})
	}
}

func TestEntityDirectory_NewWithID_LiveIndexRejected(t *testing.T) {
	d := NewEntityDirectory()
	id := newEntityID(7, 1)
	if _, err := d.NewWithID(id); err != nil {
		t.Fatalf("unexpected error on first reservation: %v", err)
	}
	if _, err := d.NewWithID(newEntityID(7, 2)); err == nil {
		t.Fatalf("expected IndexLiveError when index 7 is already live")
	} else if _, ok := err.(IndexLiveError); !ok {
		t.Fatalf("expected IndexLiveError, got %T", err)
	}
}

func TestEntityDirectory_NewWithID_StaleGenerationRejected(t *testing.T) {
	d := NewEntityDirectory()
	id := newEntityID(7, 5)
	if _, err := d.NewWithID(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.Delete(id)

	if _, err := d.NewWithID(newEntityID(7, 3)); err == nil {
		t.Fatalf("expected StaleGenerationError for generation not newer than current")
	} else if _, ok := err.(StaleGenerationError); !ok {
		t.Fatalf("expected StaleGenerationError, got %T", err)
	}
}

func TestEntityDirectory_RetiresAtMaxGeneration(t *testing.T) {
	d := NewEntityDirectory()
	id := newEntityID(1, 0)
	if _, err := d.NewWithID(id); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	d.generations[1] = maxGeneration
	d.Delete(newEntityID(1, maxGeneration))

	if len(d.freeList) != 0 {
		t.Fatalf("expected retired index to never return to the free list, got %v", d.freeList)
	}
}
