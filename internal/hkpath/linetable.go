package hkpath

import (
	"sort"

	"github.com/hikoworks/hkc/internal/hkunicode"
)

// FileLocation is the compact position record spec.md §3 describes:
// current/upstream line, three column flavors, and an upstream-file index.
// SentinelUnknown marks a field that has no meaningful value yet.
const SentinelUnknown = ^uint32(0)

type FileLocation struct {
	CurrentFileLine   uint32
	UpstreamFileLine  uint32
	UTF8Column        uint16
	UTF16Column       uint16
	UTF32Column       uint16
	UpstreamFileIndex uint16
}

// UnknownLocation is the sentinel value for "no location recorded yet".
var UnknownLocation = FileLocation{
	CurrentFileLine:  SentinelUnknown,
	UpstreamFileLine: SentinelUnknown,
}

// SyncPoint pairs a byte offset with the (line, file) it starts.
type SyncPoint struct {
	BytePtr   uint64
	Line      uint32
	FileIndex uint16
}

// LineTable maps byte offsets to (file, line, column) via an ordered list
// of sync points, plus an append-only table of distinct file names
// (populated by #line directives per spec.md §4.D).
type LineTable struct {
	points []SyncPoint
	files  []string
}

// NewLineTable creates a table whose file index 0 is primaryFile.
func NewLineTable(primaryFile string) *LineTable {
	return &LineTable{files: []string{primaryFile}}
}

// Clear removes all sync points, keeping file index 0.
func (lt *LineTable) Clear() {
	lt.points = lt.points[:0]
	if len(lt.files) > 1 {
		lt.files = lt.files[:1]
	}
}

func (lt *LineTable) fileIndex(name string) uint16 {
	for i, f := range lt.files {
		if f == name {
			return uint16(i)
		}
	}
	lt.files = append(lt.files, name)
	return uint16(len(lt.files) - 1)
}

// Add records a sync point at bytePtr starting line. An empty fileName
// keeps the previous sync point's file (or file 0 if this is the first
// point). Adding the same (bytePtr) twice is a no-op: the second call
// returns the pre-existing sync point unchanged (spec.md §8 property 7).
func (lt *LineTable) Add(bytePtr uint64, line uint32, fileName string) SyncPoint {
	fi := uint16(0)
	if fileName != "" {
		fi = lt.fileIndex(fileName)
	} else if n := len(lt.points); n > 0 {
		fi = lt.points[n-1].FileIndex
	}
	sp := SyncPoint{BytePtr: bytePtr, Line: line, FileIndex: fi}

	n := len(lt.points)
	if n == 0 || bytePtr > lt.points[n-1].BytePtr {
		lt.points = append(lt.points, sp)
		return sp
	}

	idx := sort.Search(n, func(i int) bool { return lt.points[i].BytePtr >= bytePtr })
	if idx < n && lt.points[idx].BytePtr == bytePtr {
		return lt.points[idx]
	}
	lt.points = append(lt.points, SyncPoint{})
	copy(lt.points[idx+1:], lt.points[idx:n])
	lt.points[idx] = sp
	return sp
}

// lastPointBefore returns the last sync point at or before bytePtr, or the
// implicit (0, line 1, file 0) origin if there is none.
func (lt *LineTable) lastPointBefore(bytePtr uint64) SyncPoint {
	n := len(lt.points)
	idx := sort.Search(n, func(i int) bool { return lt.points[i].BytePtr > bytePtr })
	if idx == 0 {
		return SyncPoint{BytePtr: 0, Line: 1, FileIndex: 0}
	}
	return lt.points[idx-1]
}

// Position resolves bytePtr to (file name, line, UTF-16 column) by binary
// search to the preceding sync point, then a linear scan through text
// counting vertical-space runs and widening the column for runes at or
// above U+10000.
func (lt *LineTable) Position(bytePtr uint64, text []byte) (fileName string, line uint32, utf16Col uint16) {
	base := lt.lastPointBefore(bytePtr)
	line = base.Line
	var col16 int

	i := base.BytePtr
	for i < bytePtr && int(i) < len(text) {
		r, size := hkunicode.DecodeCodePointOrByte(text[int(i):])
		var next rune
		if int(i)+size < len(text) {
			next, _ = hkunicode.DecodeCodePointOrByte(text[int(i)+size:])
		}
		if vs := hkunicode.IsVerticalSpace(r, next); vs > 0 {
			line++
			col16 = 0
			if vs == 2 {
				// consume the paired '\n' too.
				_, nsize := hkunicode.DecodeCodePointOrByte(text[int(i)+size:])
				i += uint64(size + nsize)
			} else {
				i += uint64(size)
			}
			continue
		}
		if r >= 0x10000 {
			col16 += 2
		} else {
			col16++
		}
		i += uint64(size)
	}

	fname := ""
	if int(base.FileIndex) < len(lt.files) {
		fname = lt.files[base.FileIndex]
	}
	return fname, line, uint16(col16)
}

// LineText returns the slice of text between the vertical-space boundaries
// surrounding bytePtr (exclusive of the boundary characters themselves).
func (lt *LineTable) LineText(bytePtr uint64, text []byte) []byte {
	start := int(bytePtr)
	for start > 0 {
		r, size := hkunicode.DecodeCodePointOrByte(backtrackTo(text, start))
		if size == 0 {
			break
		}
		prevStart := start - size
		var next rune
		next, _ = hkunicode.DecodeCodePointOrByte(text[start:])
		if hkunicode.IsVerticalSpace(r, next) > 0 {
			start = prevStart + size
			break
		}
		start = prevStart
	}

	end := int(bytePtr)
	for end < len(text) {
		r, size := hkunicode.DecodeCodePointOrByte(text[end:])
		if size == 0 {
			break
		}
		var next rune
		if end+size < len(text) {
			next, _ = hkunicode.DecodeCodePointOrByte(text[end+size:])
		}
		if hkunicode.IsVerticalSpace(r, next) > 0 {
			break
		}
		end += size
	}
	if start > len(text) {
		start = len(text)
	}
	if end > len(text) || end < start {
		end = len(text)
	}
	return text[start:end]
}

// backtrackTo finds the start of the rune immediately preceding position
// pos in text and returns text from that point, for decoding "the rune
// before pos".
func backtrackTo(text []byte, pos int) []byte {
	p := pos - 1
	for p > 0 && text[p]&0xC0 == 0x80 {
		p--
	}
	return text[p:]
}
