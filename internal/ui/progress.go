package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
)

// JobDone reports one finished batch job to the progress display.
type JobDone struct {
	Name   string
	Failed bool
}

// Batch is the live progress display for a conversion batch. Workers
// report finished jobs with Done while Show runs the display; the
// display quits on its own once every job is in.
type Batch struct {
	prog *tea.Program
}

// NewBatch builds the display for total jobs under the given heading.
func NewBatch(ctx context.Context, title string, total int) *Batch {
	return &Batch{
		prog: tea.NewProgram(newBatchModel(title, total), tea.WithContext(ctx)),
	}
}

// Done reports a finished job. Safe to call from any goroutine.
func (b *Batch) Done(name string, failed bool) {
	b.prog.Send(JobDone{Name: name, Failed: failed})
}

// Show blocks until every job has been reported or the context is
// canceled.
func (b *Batch) Show() error {
	_, err := b.prog.Run()
	return err
}

type batchModel struct {
	title  string
	bar    progress.Model
	total  int
	done   int
	failed int
	last   string
	styles Styles
}

func newBatchModel(title string, total int) batchModel {
	return batchModel{
		title:  title,
		bar:    progress.New(progress.WithDefaultGradient()),
		total:  total,
		styles: DefaultStyles,
	}
}

func (m batchModel) Init() tea.Cmd {
	return nil
}

func (m batchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		width := msg.Width - 6
		if width > 60 {
			width = 60
		}
		if width > 0 {
			m.bar.Width = width
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil

	case JobDone:
		m.done++
		m.last = msg.Name
		if msg.Failed {
			m.failed++
		}
		cmd := m.bar.SetPercent(float64(m.done) / float64(m.total))
		if m.done >= m.total {
			return m, tea.Sequence(cmd, tea.Quit)
		}
		return m, cmd

	case progress.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m batchModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Accent.Render(m.title))
	b.WriteString("\n\n  ")
	b.WriteString(m.bar.View())
	b.WriteString("\n\n  ")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf("%d/%d done", m.done, m.total)))
	if m.failed > 0 {
		b.WriteString("  ")
		b.WriteString(m.styles.Danger.Render(fmt.Sprintf("%d failed", m.failed)))
	}
	if m.last != "" {
		b.WriteString("\n  ")
		b.WriteString(m.styles.Muted.Render(m.last))
	}
	b.WriteString("\n")
	return b.String()
}
