package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/lorekeep/lorekeep/internal/client/importer"
	"github.com/lorekeep/lorekeep/internal/client/jobmon"
	"github.com/lorekeep/lorekeep/internal/wikisdk"
)

const (
	txtHelpPreview   = "←/→ records · e errors only · enter import · q quit"
	txtHelpImporting = "r refresh · q quit"
	txtHelpComplete  = "q quit"
)

// --- Messages ---
type sessionChangedMsg struct{}
type fatalErrMsg struct{ err error }

type importModel struct {
	ctx  context.Context
	ctrl *importer.Controller

	fileName string
	content  []byte

	spinner  spinner.Model
	width    int
	fatalErr error
}

func newImportModel(ctx context.Context, ctrl *importer.Controller, fileName string, content []byte) importModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = cyan

	return importModel{
		ctx:      ctx,
		ctrl:     ctrl,
		fileName: fileName,
		content:  content,
		spinner:  s,
	}
}

func (m importModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.validateCmd())
}

func (m importModel) validateCmd() tea.Cmd {
	return func() tea.Msg {
		m.ctrl.Open()
		if err := m.ctrl.SetFile(m.fileName, m.content); err != nil {
			return fatalErrMsg{err: err}
		}
		m.ctrl.Validate(m.ctx)
		return sessionChangedMsg{}
	}
}

func (m importModel) submitCmd() tea.Cmd {
	return func() tea.Msg {
		m.ctrl.Submit(m.ctx)
		return sessionChangedMsg{}
	}
}

func (m importModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case fatalErrMsg:
		m.fatalErr = msg.err
		return m, tea.Quit

	case sessionChangedMsg:
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m importModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q", "esc":
		return m, tea.Quit
	}

	switch m.ctrl.Session().State {
	case importer.StatePreview:
		switch msg.String() {
		case "left", "h":
			m.ctrl.PrevRecord()
		case "right", "l":
			m.ctrl.NextRecord()
		case "e":
			m.ctrl.ToggleErrorsOnly()
		case "enter":
			if m.ctrl.CanImport() {
				return m, m.submitCmd()
			}
		}
	case importer.StateImporting:
		if msg.String() == "r" {
			m.ctrl.ReloadStatus()
		}
	case importer.StateComplete:
		if msg.String() == "enter" {
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m importModel) View() string {
	if m.fatalErr != nil {
		return ""
	}

	s := m.ctrl.Session()
	var b strings.Builder
	b.WriteString(titleStyle.Render("Bulk import") + gray.Render(" · "+m.fileName) + "\n\n")

	switch s.State {
	case importer.StateUpload:
		m.viewUpload(&b, &s)
	case importer.StateValidating:
		fmt.Fprintf(&b, "%s Validating %s (%s)...\n",
			m.spinner.View(), s.FileName, humanize.Bytes(uint64(len(s.FileContent))))
	case importer.StatePreview:
		m.viewPreview(&b, &s)
	case importer.StateImporting:
		m.viewImporting(&b, &s)
	case importer.StateComplete:
		m.viewComplete(&b, &s)
	}
	return b.String()
}

func (m importModel) viewUpload(b *strings.Builder, s *importer.Session) {
	renderNotice(b, s.Error)
	if s.HasFile() {
		fmt.Fprintf(b, "%s is still selected, fix the problem and retry\n", s.FileName)
	}
	b.WriteString(helpStyle.Render(txtHelpComplete) + "\n")
}

func (m importModel) viewPreview(b *strings.Builder, s *importer.Session) {
	renderNotice(b, s.Error)
	b.WriteString(importer.SummaryLine(s.Stats) + "\n")
	if len(s.ParsingErrors) > 0 {
		fmt.Fprintf(b, "%s\n", warnStyle.Render(fmt.Sprintf("%d unparsable rows skipped", len(s.ParsingErrors))))
	}
	b.WriteString("\n")

	if record := m.ctrl.CurrentRecord(); record != nil {
		renderRecord(b, record)
	} else {
		b.WriteString(gray.Render("no records to show") + "\n")
	}
	b.WriteString("\n")

	if nav := m.ctrl.NavLabel(); nav != "" {
		mode := ""
		if s.ShowErrorsOnly {
			mode = warnStyle.Render(" [errors only]")
		}
		b.WriteString(nav + mode + "\n")
	}
	if m.ctrl.CanImport() {
		b.WriteString(green.Render("⏎ "+m.ctrl.ImportLabel()) + "\n")
	} else {
		b.WriteString(gray.Render("nothing importable in this file") + "\n")
	}
	b.WriteString(helpStyle.Render(txtHelpPreview) + "\n")
}

func (m importModel) viewImporting(b *strings.Builder, s *importer.Session) {
	fmt.Fprintf(b, "%s %s\n", m.spinner.View(), s.Progress)
	if q := s.JobQueueStatus; q != nil {
		fmt.Fprintf(b, "%s\n", gray.Render(fmt.Sprintf("queue %s: %d remaining, peak %d", q.Name, q.JobsRemaining, q.HighWaterMark)))
	}
	if s.StreamingDisconnected {
		b.WriteString(warnStyle.Render("live updates unavailable, falling back to polling") + "\n")
	}
	b.WriteString(helpStyle.Render(txtHelpImporting) + "\n")
}

func (m importModel) viewComplete(b *strings.Builder, s *importer.Session) {
	fmt.Fprintf(b, "%s Imported %d records\n", green.Render("✓"), s.ImportedCount)
	if s.ReportURL != "" {
		fmt.Fprintf(b, "report: %s\n", cyan.Render(s.ReportURL))
	}
	b.WriteString(gray.Render("see past runs with 'lorekeep history'") + "\n")
	b.WriteString(helpStyle.Render(txtHelpComplete) + "\n")
}

func renderNotice(b *strings.Builder, notice *wikisdk.Notice) {
	if notice == nil {
		return
	}
	fmt.Fprintf(b, "%s %s\n", errorHeaderStyle.Render("ERROR:"), notice.Message)
	if notice.Detail != "" && notice.Detail != notice.Message {
		b.WriteString(gray.Render(notice.Detail) + "\n")
	}
}

func renderRecord(b *strings.Builder, record *wikisdk.ImportRecord) {
	badge := badgeNewStyle.Render("[new]")
	if importer.Badge(record) == importer.BadgeUpdate {
		badge = badgeUpdateStyle.Render("[update]")
	}
	fmt.Fprintf(b, "%s %s\n", badge, record.Identifier)
	if record.Template != "" {
		fmt.Fprintf(b, "  template: %s\n", record.Template)
	}

	for _, e := range record.ValidationErrors {
		fmt.Fprintf(b, "  %s\n", red.Render("✗ "+e))
	}
	for _, w := range record.Warnings {
		fmt.Fprintf(b, "  %s\n", warnStyle.Render("! "+w))
	}

	for _, entry := range importer.FlattenRecord(record) {
		switch entry.Kind {
		case importer.FieldDelete:
			fmt.Fprintf(b, "  %s\n", red.Render(entry.Key+" (delete)"))
		case importer.FieldArrayAdd:
			fmt.Fprintf(b, "  %s += %s\n", lightGray.Render(entry.Key), green.Render(entry.Value))
		case importer.FieldArrayRemove:
			fmt.Fprintf(b, "  %s -= %s\n", lightGray.Render(entry.Key), red.Render(entry.Value))
		default:
			fmt.Fprintf(b, "  %s: %s\n", lightGray.Render(entry.Key), entry.Value)
		}
	}
}

func runImportTUI(ctx context.Context, sdk *wikisdk.WikiSDK, recorder importer.Recorder, path string) error {
	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var program *tea.Program
	ctrl := importer.New(importer.Options{
		Preview:  sdk.Import,
		Submit:   sdk.Import,
		Feed:     jobmon.SDKFeed(sdk.Jobs),
		Recorder: recorder,
		OnChange: func() {
			if program != nil {
				program.Send(sessionChangedMsg{})
			}
		},
	})
	defer ctrl.Close()

	model := newImportModel(ctx, ctrl, filepath.Base(path), content)
	program = tea.NewProgram(model, tea.WithContext(ctx))

	final, err := program.Run()
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, tea.ErrProgramKilled) {
			return nil
		}
		return err
	}
	if m, ok := final.(importModel); ok && m.fatalErr != nil {
		return m.fatalErr
	}
	return nil
}
