package hkpath

import "testing"

// TestAddIsIdempotent locks spec.md §8 testable property 7: adding the
// same sync point twice is a no-op.
func TestAddIsIdempotent(t *testing.T) {
	lt := NewLineTable("f.hkm")
	sp1 := lt.Add(10, 3, "")
	sp2 := lt.Add(10, 3, "")
	if sp1 != sp2 {
		t.Errorf("Add twice at the same byte pointer returned different sync points: %+v != %+v", sp1, sp2)
	}
	if got := len(lt.points); got != 1 {
		t.Errorf("len(points) = %d, want 1 (duplicate suppressed)", got)
	}
}

func TestAddOutOfOrderInserts(t *testing.T) {
	lt := NewLineTable("f.hkm")
	lt.Add(100, 5, "")
	lt.Add(10, 2, "")
	lt.Add(50, 3, "")
	if len(lt.points) != 3 {
		t.Fatalf("len(points) = %d, want 3", len(lt.points))
	}
	for i := 1; i < len(lt.points); i++ {
		if lt.points[i-1].BytePtr >= lt.points[i].BytePtr {
			t.Errorf("points not strictly increasing by BytePtr: %+v", lt.points)
		}
	}
}

func TestPositionResolvesLineAndColumn(t *testing.T) {
	text := []byte("abc\ndef\nghi")
	lt := NewLineTable("f.hkm")

	// byte 0 is line 1 col 0; byte 5 ('e') is on line 2, col 1.
	name, line, col := lt.Position(0, text)
	if name != "f.hkm" || line != 1 || col != 0 {
		t.Errorf("Position(0) = (%q,%d,%d), want (f.hkm,1,0)", name, line, col)
	}
	_, line, col = lt.Position(5, text)
	if line != 2 || col != 1 {
		t.Errorf("Position(5) = (_,%d,%d), want (_,2,1)", line, col)
	}
}

func TestPositionUsesLineDirectiveSyncPoint(t *testing.T) {
	text := []byte("abc\ndef\n")
	lt := NewLineTable("f.hkm")
	lt.Add(4, 100, "other.hkm")

	name, line, _ := lt.Position(5, text)
	if name != "other.hkm" || line != 100 {
		t.Errorf("Position after #line sync = (%q,%d), want (other.hkm,100)", name, line)
	}
}

func TestClearKeepsPrimaryFile(t *testing.T) {
	lt := NewLineTable("f.hkm")
	lt.Add(4, 2, "g.hkm")
	lt.Clear()
	if len(lt.points) != 0 {
		t.Errorf("len(points) after Clear = %d, want 0", len(lt.points))
	}
	if len(lt.files) != 1 || lt.files[0] != "f.hkm" {
		t.Errorf("files after Clear = %v, want [f.hkm]", lt.files)
	}
}

func TestLineTextReturnsSurroundingLine(t *testing.T) {
	text := []byte("abc\ndef\nghi")
	lt := NewLineTable("f.hkm")
	got := lt.LineText(5, text) // 'e' in "def"
	if string(got) != "def" {
		t.Errorf("LineText(5) = %q, want %q", got, "def")
	}
}
