package agent

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStoreMissingFileYieldsZeroTable(t *testing.T) {
	store := NewFileStore(filepath.Join(t.TempDir(), "qtable.bin"))

	table, err := store.Load(10)
	if err != nil {
		t.Fatalf("Load() of a missing file should not fail, got %v", err)
	}
	if table.States() != 1000 {
		t.Errorf("States() = %d, expected 1000", table.States())
	}
	if table.Visited() != 0 {
		t.Errorf("missing file should yield a zero table, %d states visited", table.Visited())
	}
}

func TestFileStoreRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "qtable.bin")
	store := NewFileStore(path)

	table := NewTable(10)
	table.Set(State{Y: 0, V: 0, Dist: 0}, ActionIdle, 1.5)
	table.Set(State{Y: 9, V: 9, Dist: 9}, ActionFlap, -1000)
	table.Set(State{Y: 4, V: 7, Dist: 2}, ActionFlap, 3.25)

	if err := store.Save(table); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("table file missing after Save(): %v", err)
	}
	if info.Size() < int64(1000*NumActions*8) {
		t.Errorf("table file is %d bytes, expected at least %d", info.Size(), 1000*NumActions*8)
	}

	loaded, err := store.Load(10)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	for r := 0; r < table.States(); r++ {
		s := table.StateAt(r)
		for a := Action(0); a < NumActions; a++ {
			if loaded.Get(s, a) != table.Get(s, a) {
				t.Fatalf("cell %+v/%v = %g, expected %g", s, a, loaded.Get(s, a), table.Get(s, a))
			}
		}
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected only the table file in the directory, found %d entries", len(entries))
	}
}

func TestFileStoreCorruptFileFallsBack(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"garbage", []byte("definitely not a matrix")},
		{"npy header", []byte("\x93NUMPY\x01\x00v\x00{'descr': '<f8', 'fortran_order': False, 'shape': (10, 10, 10, 2), }")},
	}

	// Right length, wrong content.
	good, err := NewTable(10).m.MarshalBinary()
	if err != nil {
		t.Fatal(err)
	}
	bad := make([]byte, len(good))
	for i := range bad {
		bad[i] = 0xff
	}
	tests = append(tests, struct {
		name string
		data []byte
	}{"bad header", bad})

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "qtable.bin")
			if err := os.WriteFile(path, tc.data, 0o600); err != nil {
				t.Fatal(err)
			}

			table, err := NewFileStore(path).Load(10)
			if err == nil {
				t.Error("expected an error describing the corrupt file")
			}
			if table == nil || table.States() != 1000 || table.Visited() != 0 {
				t.Error("corrupt file should still yield a zero table")
			}
		})
	}
}

func TestFileStoreShapeMismatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qtable.bin")
	store := NewFileStore(path)

	small := NewTable(5)
	small.Set(State{Y: 1, V: 1, Dist: 1}, ActionFlap, 7)
	if err := store.Save(small); err != nil {
		t.Fatal(err)
	}

	table, err := store.Load(10)
	if err == nil {
		t.Error("expected a shape error when bins differ")
	}
	if table.Bins() != 10 || table.Visited() != 0 {
		t.Error("shape mismatch should yield a zero table of the requested size")
	}
}

func TestFileStoreRemove(t *testing.T) {
	path := filepath.Join(t.TempDir(), "qtable.bin")
	store := NewFileStore(path)

	if err := store.Remove(); err != nil {
		t.Errorf("Remove() of a missing file should succeed, got %v", err)
	}
	if err := store.Save(NewTable(10)); err != nil {
		t.Fatal(err)
	}
	if err := store.Remove(); err != nil {
		t.Fatalf("Remove() failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("table file should be gone after Remove()")
	}
}
