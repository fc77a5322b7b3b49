// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/notedex/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/notedex/internal/core/domain"
)

// ResultList displays retrieved chunks in a navigable list.
type ResultList struct {
	chunks   []domain.RetrievedChunk
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewResultList creates a new result list component.
func NewResultList(s *styles.Styles) *ResultList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ResultList{
		chunks:   nil,
		selected: 0,
		styles:   s,
		width:    80,
		height:   10,
	}
}

// Init initialises the result list.
func (r *ResultList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ResultList) Update(msg tea.Msg) (*ResultList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		//nolint:exhaustive // handling only relevant key types
		switch msg.Type {
		case tea.KeyUp:
			r.MoveUp()
		case tea.KeyDown:
			r.MoveDown()
		default:
			// Handle other keys
		}
		switch msg.String() {
		case "k":
			r.MoveUp()
		case "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the result list.
func (r *ResultList) View() string {
	if len(r.chunks) == 0 {
		return r.styles.Muted.Render("No matching notes")
	}

	lines := make([]string, 0, len(r.chunks)*3+2)

	// Header
	header := r.styles.Subtitle.Render(fmt.Sprintf("Matches (%d)", len(r.chunks)))
	lines = append(lines, header, "")

	// Each result takes 3 lines: title, source, preview.
	visibleCount := (r.height - 4) / 3
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.chunks) {
		end = len(r.chunks)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderChunk(i, &r.chunks[i]))
	}

	return strings.Join(lines, "\n")
}

// renderChunk formats a single retrieved chunk with preview text.
func (r *ResultList) renderChunk(index int, chunk *domain.RetrievedChunk) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	title := chunk.NoteTitle
	if title == "" {
		title = chunk.SourcePath
	}
	if title == "" {
		title = "(untitled)"
	}

	maxTitleLen := r.width - 20
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen-3] + "..."
	}

	score := fmt.Sprintf("%.2f", chunk.Similarity)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxTitleLen, title, score))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxTitleLen, title)) +
			r.styles.Similarity.Render(score)
	}

	sourceLine := r.styles.Subtitle.Render(fmt.Sprintf("    %s, chunk %d/%d",
		chunk.SourcePath, chunk.ChunkIndex+1, chunk.TotalChunks))

	preview := strings.Join(strings.Fields(chunk.Content), " ")
	maxPreviewLen := r.width - 6
	if maxPreviewLen < 20 {
		maxPreviewLen = 20
	}
	if len(preview) > maxPreviewLen {
		preview = preview[:maxPreviewLen-3] + "..."
	}
	previewLine := r.styles.Muted.Render("    " + preview)

	return titleLine + "\n" + sourceLine + "\n" + previewLine
}

// SetChunks updates the result list and resets the selection.
func (r *ResultList) SetChunks(chunks []domain.RetrievedChunk) {
	r.chunks = chunks
	r.selected = 0
}

// Chunks returns the current chunks.
func (r *ResultList) Chunks() []domain.RetrievedChunk {
	return r.chunks
}

// Selected returns the index of the selected chunk.
func (r *ResultList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ResultList) SetSelected(index int) {
	if index >= 0 && index < len(r.chunks) {
		r.selected = index
	}
}

// SelectedChunk returns the currently selected chunk, or nil if none.
func (r *ResultList) SelectedChunk() *domain.RetrievedChunk {
	if len(r.chunks) == 0 || r.selected < 0 || r.selected >= len(r.chunks) {
		return nil
	}
	return &r.chunks[r.selected]
}

// MoveUp moves selection up.
func (r *ResultList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ResultList) MoveDown() {
	if r.selected < len(r.chunks)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ResultList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ResultList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ResultList) Height() int {
	return r.height
}

// Count returns the number of chunks.
func (r *ResultList) Count() int {
	return len(r.chunks)
}

// IsEmpty returns whether the list is empty.
func (r *ResultList) IsEmpty() bool {
	return len(r.chunks) == 0
}
