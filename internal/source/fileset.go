package source

import (
	"fmt"
	"os"
	"sort"

	"fortio.org/safecast"
)

// FileID identifies a loaded file within a FileSet.
type FileID uint32

// FileSet owns the set of FileBuffers loaded for a compilation and
// provides line/column resolution for diagnostic rendering. Loading files
// from disk is a driver concern; FileSet only indexes buffers
// it is handed.
type FileSet struct {
	files   []*FileBuffer
	lineIdx [][]int // per-file, byte offset of each line start
	index   map[string]FileID
}

// NewFileSet creates an empty FileSet.
func NewFileSet() *FileSet {
	return &FileSet{index: make(map[string]FileID)}
}

// Add registers a buffer already read by the driver and returns its FileID.
func (fs *FileSet) Add(buf *FileBuffer) FileID {
	fs.files = append(fs.files, buf)
	fs.lineIdx = append(fs.lineIdx, buildLineIndex(buf.Text))
	n, err := safecast.Conv[uint32](len(fs.files))
	if err != nil {
		panic(fmt.Errorf("source: file set overflow: %w", err))
	}
	id := FileID(n - 1)
	fs.index[buf.Path] = id
	return id
}

// Load reads path from disk and adds it.
func (fs *FileSet) Load(path string) (FileID, error) {
	text, err := os.ReadFile(path) //nolint:gosec // path supplied by the caller's own project manifest
	if err != nil {
		return 0, err
	}
	return fs.Add(&FileBuffer{Path: path, Text: string(text)}), nil
}

// File returns the buffer for id.
func (fs *FileSet) File(id FileID) *FileBuffer { return fs.files[id] }

// Lookup returns the FileID previously assigned to path, if any.
func (fs *FileSet) Lookup(path string) (FileID, bool) {
	id, ok := fs.index[path]
	return id, ok
}

// Position is a 1-based line/column pair.
type Position struct {
	Line   int
	Column int
}

// PositionFor resolves a byte offset within file id to a line/column.
func (fs *FileSet) PositionFor(id FileID, offset int) Position {
	lines := fs.lineIdx[id]
	line := sort.SearchInts(lines, offset+1) - 1
	if line < 0 {
		line = 0
	}
	return Position{Line: line + 1, Column: offset - lines[line] + 1}
}

func buildLineIndex(text string) []int {
	starts := []int{0}
	for i := 0; i < len(text); i++ {
		if text[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}
