package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/encore/internal/state"
)

const queueRows = 8

// View implements tea.Model.
func (m Model) View() string {
	styles := m.theme.Styles()
	sections := []string{
		m.renderHeader(styles),
		"",
		m.renderNowPlaying(styles),
		"",
		m.renderQueue(styles),
		"",
		styles.Footer.Render(m.help.View(m.keys)),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader(styles Styles) string {
	who := "guest"
	if u := m.snapshot.User; u.IsAuthenticated() {
		who = u.Email
		if u.DisplayName != "" {
			who = u.DisplayName
		}
	}
	content := styles.Logo.Render("encore") + "  " + m.snapshot.Player.Phase().String() + "  " + who
	header := styles.Header
	if m.width > 0 {
		header = header.Width(m.width)
	}
	return header.Render(content)
}

func (m Model) renderNowPlaying(styles Styles) string {
	current, ok := m.snapshot.CurrentTrack()
	if !ok {
		return styles.MutedText.Render("  Nothing playing")
	}
	item := m.snapshot.Player.CurrentItem

	var b strings.Builder
	b.WriteString("  " + styles.Title.Render(current.Track.Title))
	if current.Track.Artist != "" {
		b.WriteString(styles.MutedText.Render("  " + current.Track.Artist))
	}
	b.WriteString("\n")

	if item.Preparing {
		b.WriteString("  " + styles.MutedText.Render("Preparing…"))
		return b.String()
	}

	if addon, ok := item.ActiveAddon(); ok {
		label := fmt.Sprintf("%s: %s", strings.ToUpper(string(addon.Kind)), addon.Title)
		if n := len(item.Addons); n > 1 {
			label += fmt.Sprintf(" (+%d)", n-1)
		}
		b.WriteString("  " + styles.Banner.Render(label) + "\n")
	}

	total := current.Track.Duration
	ratio := 0.0
	if total > 0 {
		ratio = min(float64(item.State.Progress)/float64(total), 1)
	}
	b.WriteString("  " + m.progress.ViewAs(ratio))
	b.WriteString(styles.MutedText.Render(fmt.Sprintf("  %s / %s", formatDuration(item.State.Progress), formatDuration(total))))

	if l := item.Lyrics; l != nil {
		mode := "lyrics: plain"
		if l.Mode == state.LyricsKaraoke {
			mode = "lyrics: karaoke (" + string(l.KaraokeTrack) + ")"
		}
		b.WriteString("\n  " + styles.Accent.Render(mode))
	}
	return b.String()
}

func (m Model) renderQueue(styles Styles) string {
	tracks := m.snapshot.Player.Tracks
	if len(tracks) == 0 {
		return styles.MutedText.Render("  Queue is empty")
	}
	active := -1
	if item := m.snapshot.Player.CurrentItem; item != nil {
		active = tracks.Index(item.ActiveTrackHash)
	}
	start, end := queueWindow(len(tracks), active, queueRows)

	lines := []string{styles.MutedText.Render(fmt.Sprintf("  Queue (%d)", len(tracks)))}
	for i := start; i < end; i++ {
		t := tracks[i].Track
		line := fmt.Sprintf("%3d  %s", i+1, t.Title)
		if t.Artist != "" {
			line += " · " + t.Artist
		}
		if i == active {
			lines = append(lines, "  "+styles.Active.Render(line))
			continue
		}
		lines = append(lines, "  "+styles.Text.Render(line))
	}
	return strings.Join(lines, "\n")
}

// queueWindow picks up to rows entries around active.
func queueWindow(total, active, rows int) (int, int) {
	if total <= rows {
		return 0, total
	}
	start := max(active-rows/2, 0)
	end := start + rows
	if end > total {
		end = total
		start = total - rows
	}
	return start, end
}

func formatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d.Round(time.Second) / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
