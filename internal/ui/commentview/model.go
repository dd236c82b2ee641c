package commentview

import (
	"fmt"
	"math"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/fragmede/quibble/internal/api"
	"github.com/fragmede/quibble/internal/render"
	"github.com/fragmede/quibble/internal/tree"
	"github.com/fragmede/quibble/internal/ui/messages"
)

var (
	depthColors = []lipgloss.Color{
		"#00BFFF", "#828282", "#FF6600", "#32CD32", "#FFD700", "#FF69B4", "#9370DB", "#20B2AA",
	}

	authorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00BFFF")).Bold(true)
	metaStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
	toggleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD700"))
	selectedStyle  = lipgloss.NewStyle().Background(lipgloss.Color("#333333"))
	headerStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Padding(0, 1)
	emptyStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#828282")).Italic(true)
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
)

const scrollStep = 3

type commentOffset struct {
	startLine int
	endLine   int
}

// Model is the nested comment view.
type Model struct {
	viewport    viewport.Model
	records     []api.Comment
	roots       []*tree.Node
	comments    []FlatComment
	offsets     []commentOffset
	selectedIdx int
	collapse    CollapseState
	explorerURL string
	loaded      bool
	width       int
	height      int
}

// New creates a comment view. Explorer links are built by appending the
// raw address to explorerURL.
func New(explorerURL string) Model {
	vp := viewport.New(0, 0)
	vp.SetContent("Loading...")

	return Model{
		viewport:    vp,
		collapse:    make(CollapseState),
		explorerURL: explorerURL,
	}
}

// SetForest replaces the displayed forest. All previous rows and collapse
// state are discarded; every node starts expanded.
func (m *Model) SetForest(records []api.Comment, roots []*tree.Node) {
	m.records = records
	m.roots = roots
	m.collapse = make(CollapseState)
	m.selectedIdx = 0
	m.loaded = true
	m.rebuildComments()
	m.rebuildContent()
	m.viewport.GotoTop()
}

// SetSize updates viewport dimensions.
func (m *Model) SetSize(w, h int) {
	m.width = w
	m.height = h
	m.viewport.Width = w
	m.resizeViewport()
	m.rebuildContent()
}

func (m *Model) resizeViewport() {
	header := m.renderHeader()
	headerLines := strings.Count(header, "\n") + 1
	m.viewport.Height = m.height - headerLines
	if m.viewport.Height < 1 {
		m.viewport.Height = 1
	}
}

// Selected returns the currently selected comment, or nil when the view is
// empty.
func (m Model) Selected() *api.Comment {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.comments) {
		return nil
	}
	return &m.comments[m.selectedIdx].Node.Comment
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "j", "down":
			if m.selectedIdx >= 0 && m.selectedIdx < len(m.offsets) {
				off := m.offsets[m.selectedIdx]
				viewBottom := m.viewport.YOffset + m.viewport.Height
				if off.endLine >= viewBottom {
					// Comment extends below viewport — scroll within it.
					m.viewport.SetYOffset(m.viewport.YOffset + scrollStep)
					return m, nil
				}
			}
			if m.selectedIdx < len(m.comments)-1 {
				m.selectedIdx++
				m.rebuildContent()
				m.scrollToCursor()
			}
			return m, nil
		case "k", "up":
			if m.selectedIdx >= 0 && m.selectedIdx < len(m.offsets) {
				off := m.offsets[m.selectedIdx]
				if off.startLine < m.viewport.YOffset {
					// Comment extends above viewport — scroll within it.
					newOff := m.viewport.YOffset - scrollStep
					if newOff < off.startLine {
						newOff = off.startLine
					}
					m.viewport.SetYOffset(newOff)
					return m, nil
				}
			}
			if m.selectedIdx > 0 {
				m.selectedIdx--
				m.rebuildContent()
				m.scrollToCursor()
			}
			return m, nil
		case "enter", " ":
			m.toggleSelected()
			return m, nil
		case "z":
			// Toggle collapse all: if any are expanded, collapse all; otherwise expand all.
			anyExpanded := false
			for _, fc := range m.comments {
				if !m.collapse[fc.Node.Comment.ID] && len(fc.Node.Children) > 0 {
					anyExpanded = true
					break
				}
			}
			m.forEachNode(func(n *tree.Node) {
				if len(n.Children) > 0 {
					m.collapse[n.Comment.ID] = anyExpanded
				}
			})
			m.rebuildComments()
			m.rebuildContent()
			if anyExpanded {
				m.viewport.GotoTop()
				m.selectedIdx = 0
			}
			return m, nil
		case "[", "p":
			if idx := FindParentIndex(m.comments, m.selectedIdx); idx >= 0 {
				m.selectedIdx = idx
				m.rebuildContent()
				m.scrollToCursor()
			}
			return m, nil
		case "]":
			if idx := FindNextSiblingIndex(m.comments, m.selectedIdx); idx >= 0 {
				m.selectedIdx = idx
				m.rebuildContent()
				m.scrollToCursor()
			}
			return m, nil
		case "g", "home":
			m.selectedIdx = 0
			m.rebuildContent()
			m.viewport.GotoTop()
			return m, nil
		case "G", "end":
			if len(m.comments) > 0 {
				m.selectedIdx = len(m.comments) - 1
				m.rebuildContent()
				m.viewport.GotoBottom()
			}
			return m, nil
		case "ctrl+d", "pgdown":
			m.viewport.HalfViewDown()
			return m, nil
		case "ctrl+u", "pgup":
			m.viewport.HalfViewUp()
			return m, nil
		case "y":
			if sel := m.Selected(); sel != nil {
				link := m.explorerURL + sel.Author
				return m, func() tea.Msg {
					if err := clipboard.WriteAll(link); err != nil {
						return messages.StatusMsg{Text: "Copy failed: " + err.Error(), IsError: true}
					}
					return messages.StatusMsg{Text: "Copied " + link}
				}
			}
			return m, nil
		case "o":
			if sel := m.Selected(); sel != nil {
				link := m.explorerURL + sel.Author
				return m, func() tea.Msg {
					return messages.StatusMsg{Text: "Opening: " + link}
				}
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// toggleSelected flips the selected node's expanded/collapsed flag. No
// other node's flag is touched.
func (m *Model) toggleSelected() {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.comments) {
		return
	}
	node := m.comments[m.selectedIdx].Node
	if len(node.Children) == 0 {
		return
	}
	id := node.Comment.ID
	m.collapse[id] = !m.collapse[id]
	m.rebuildComments()
	m.rebuildContent()
}

func (m *Model) forEachNode(fn func(n *tree.Node)) {
	var walk func(n *tree.Node)
	walk = func(n *tree.Node) {
		fn(n)
		for _, c := range n.Children {
			walk(c)
		}
	}
	for _, r := range m.roots {
		walk(r)
	}
}

// View renders the comment view.
func (m Model) View() string {
	header := m.renderHeader()
	return lipgloss.JoinVertical(lipgloss.Left, header, m.viewport.View())
}

func (m *Model) rebuildComments() {
	m.comments = FlattenForest(m.roots, m.collapse)
	if m.selectedIdx >= len(m.comments) {
		m.selectedIdx = len(m.comments) - 1
	}
	if m.selectedIdx < 0 {
		m.selectedIdx = 0
	}
}

func (m *Model) rebuildContent() {
	if len(m.comments) == 0 {
		m.offsets = nil
		switch {
		case !m.loaded:
			m.viewport.SetContent("  Loading comments...")
		case len(m.records) == 0:
			m.viewport.SetContent("  " + emptyStyle.Render("No comments yet."))
		default:
			// Non-empty batch with zero roots: every record resolved to a
			// parent, which only a parentId cycle can produce.
			m.viewport.SetContent("  " + emptyStyle.Render(
				"No root comments — every comment in this batch replies to another."))
		}
		return
	}

	var sb strings.Builder
	m.offsets = make([]commentOffset, len(m.comments))
	availWidth := m.width - 4
	if availWidth < 20 {
		availWidth = 20
	}

	lineCount := 0
	for i, fc := range m.comments {
		startLine := lineCount
		c := fc.Node.Comment
		indent := int(math.Min(float64(fc.Depth*2), 30))
		indentStr := strings.Repeat(" ", indent)

		barColor := depthColors[fc.Depth%len(depthColors)]
		selected := i == m.selectedIdx
		if selected {
			barColor = "#00BFFF"
		}
		bar := lipgloss.NewStyle().Foreground(barColor).Render("│")

		// Header: author, app, time, channel, reply annotation.
		header := authorStyle.Render(render.AbbrevAddress(c.Author))
		if c.App != "" {
			header += " " + metaStyle.Render("via "+render.AbbrevAddress(c.App))
		}
		header += " " + metaStyle.Render(render.FormatTimestamp(c.CreatedAt))
		if c.ChannelID != "" {
			header += " " + metaStyle.Render("ch:"+render.Truncate(c.ChannelID, 16))
		}
		if c.IsReply() {
			header += " " + metaStyle.Render("reply to "+render.AbbrevAddress(c.ParentID))
		}

		// Body text. Content is plain text; it is never parsed as markup.
		bodyWidth := availWidth - indent - 4
		if bodyWidth < 20 {
			bodyWidth = 20
		}
		body := render.WrapText(c.Content, bodyWidth)

		headerLine := indentStr + bar + " " + header
		if selected {
			headerLine = selectedStyle.Render(headerLine)
		}
		sb.WriteString(headerLine + "\n")
		lineCount++

		for _, line := range strings.Split(body, "\n") {
			bodyLine := indentStr + bar + " " + line
			if selected {
				bodyLine = selectedStyle.Render(bodyLine)
			}
			sb.WriteString(bodyLine + "\n")
			lineCount++
		}

		if n := len(fc.Node.Children); n > 0 {
			label := fmt.Sprintf("Hide Replies (%d)", n)
			if fc.IsCollapsed {
				label = fmt.Sprintf("Show Replies (%d)", n)
			}
			toggleLine := indentStr + bar + " " + toggleStyle.Render("["+label+"]")
			if selected {
				toggleLine = selectedStyle.Render(toggleLine)
			}
			sb.WriteString(toggleLine + "\n")
			lineCount++
		}

		sb.WriteString("\n")
		lineCount++

		m.offsets[i] = commentOffset{startLine: startLine, endLine: lineCount - 1}
	}

	m.viewport.SetContent(sb.String())
}

func (m *Model) scrollToCursor() {
	if m.selectedIdx < 0 || m.selectedIdx >= len(m.offsets) {
		return
	}
	off := m.offsets[m.selectedIdx]
	// Show the start of the selected comment if it's not already visible.
	if off.startLine < m.viewport.YOffset || off.startLine >= m.viewport.YOffset+m.viewport.Height {
		m.viewport.SetYOffset(off.startLine)
	}
}

func (m Model) renderHeader() string {
	var parts []string

	title := headerStyle.Render("Comments")
	if m.loaded {
		title += " " + metaStyle.Render(fmt.Sprintf("(%d)", len(m.records)))
	}
	parts = append(parts, title)
	parts = append(parts, separatorStyle.Render(strings.Repeat("─", max(m.width, 1))))
	hint := metaStyle.Render("j/k:move  [:parent  ]:sibling  space:toggle replies  z:fold all  y:copy  o:explorer  r:refresh  q:quit")
	parts = append(parts, hint)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}
