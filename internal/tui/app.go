package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/barysiuk/ananke/internal/core"
	"github.com/barysiuk/ananke/internal/engine"
	"github.com/barysiuk/ananke/internal/logger"
)

// appView represents the active screen.
type appView int

const (
	viewMain       appView = iota // Skills / MCP tabs
	viewPicker                    // Agent scope picker
	viewPreview                   // Skill preview
	viewTree                      // Skill directory tree
	viewInstall                   // Install-from-URL dialog
	viewCredential                // Token prompt after an auth failure
	viewSync                      // Bulk sync dialog
	viewEditor                    // MCP JSON editor
	viewSettings                  // Settings
)

// Options configures the TUI.
type Options struct {
	Runner   *engine.Runner
	Config   *core.ConfigManager // optional; scopes are not persisted without it
	Settings core.Settings
	Version  string
}

// Run starts the TUI and blocks until the user quits.
func Run(ctx context.Context, opts Options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(NewApp(ctx, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return err
	}
	return nil
}

// App is the root Bubbletea model.
type App struct {
	ctx     context.Context
	runner  *engine.Runner
	config  *core.ConfigManager
	version string

	// session is mutated only from Update.
	session *engine.Session

	activeView appView
	width      int
	height     int
	ready      bool
	// loaded is set by the first successful load.
	loaded bool

	tabs       tabsModel
	skills     skillsModel
	mcp        mcpModel
	picker     pickerModel
	install    installModel
	credential credentialModel
	sync       syncModel
	editor     editorModel
	settings   settingsModel
	confirm    confirmModel
	status     statusBarModel
	help       help.Model

	// Preview and tree share one viewport.
	viewport        viewport.Model
	viewportTitle   string
	previewLoading  bool
	previewSpinner  spinner.Model
	glamourRenderer *glamour.TermRenderer
}

// NewApp creates the root model. The configured scopes are restored once
// the first load lists them.
func NewApp(ctx context.Context, opts Options) App {
	session := engine.NewSession()
	session.SetSkillScope(opts.Settings.LastSkillSource)
	session.SetMcpScope(opts.Settings.LastMcpSource)

	h := help.New()
	h.ShortSeparator = "  |  "

	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(spinnerStyle),
	)

	return App{
		ctx:            ctx,
		runner:         opts.Runner,
		config:         opts.Config,
		version:        opts.Version,
		session:        session,
		tabs:           newTabsModel(),
		skills:         newSkillsModel(),
		mcp:            newMcpModel(),
		picker:         newPickerModel(),
		install:        newInstallModel(),
		credential:     newCredentialModel(),
		sync:           newSyncModel(),
		editor:         newEditorModel(),
		settings:       newSettingsModel().setData(opts.Settings),
		confirm:        newConfirmModel(),
		status:         newStatusBarModel(),
		help:           h,
		previewSpinner: s,
	}
}

// --- Messages ---

type loadedMsg struct {
	snap engine.Snapshot
	err  error
}

type installDoneMsg struct{ res engine.InstallResult }

type syncDoneMsg struct{ out engine.SyncOutcome }

type deleteDoneMsg struct{ res engine.DeleteResult }

type saveDoneMsg struct{ res engine.SaveResult }

type treeLoadedMsg struct {
	title string
	node  core.TreeNode
	err   error
}

// openPreviewMsg opens the rendered preview of a skill.
type openPreviewMsg struct {
	title  string
	header string
	body   string
}

// previewRenderedMsg is sent when background glamour rendering completes.
type previewRenderedMsg struct {
	content  string
	renderer *glamour.TermRenderer
}

type settingsSavedMsg struct {
	key      string
	settings core.Settings
	err      error
}

type statusMsg struct {
	text string
	kind statusMsgKind
}

type errMsg struct {
	err error
}

// --- Init / Update / View ---

func (a App) Init() tea.Cmd {
	return a.loadCmd()
}

// Update handles msg and then mirrors the session's busy flags into the
// status bar.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	a, cmd := a.handle(msg)
	var busyCmd tea.Cmd
	a.status, busyCmd = a.status.setBusy(a.session.Busy())
	return a, tea.Batch(cmd, busyCmd)
}

func (a App) handle(msg tea.Msg) (App, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.help.Width = msg.Width
		a.status = a.status.setWidth(msg.Width)
		a.propagateSize()
		return a, nil

	case loadedMsg:
		if msg.err != nil {
			return a.showStatus(fmt.Sprintf("Error: %v", msg.err), statusError)
		}
		a.session.Load(msg.snap)
		a.refresh()
		// Later loads only reconcile: a selection they drop stays empty
		// until the user moves the cursor.
		if !a.loaded {
			a.loaded = true
			a.syncSelection()
		}
		return a, nil

	case tabActiveMsg:
		a.syncSelection()
		return a, nil

	case scopeChosenMsg:
		if msg.kind == engine.KindMcp {
			a.session.SetMcpScope(msg.id)
		} else {
			a.session.SetSkillScope(msg.id)
		}
		a.activeView = viewMain
		a.refresh()
		a.syncSelection()
		return a, a.persistScopesCmd()

	case installSubmittedMsg:
		return a.startInstall(msg)

	case installDoneMsg:
		return a.finishInstall(msg.res)

	case tokenSubmittedMsg:
		attempt, err := a.session.Install().SubmitToken(msg.token)
		if err != nil {
			a.credential = a.credential.rejectToken(err)
			return a, nil
		}
		var cmd tea.Cmd
		a.credential, cmd = a.credential.startRetry()
		return a, tea.Batch(cmd, a.installCmd(attempt))

	case credentialCancelledMsg:
		a.session.Install().Cancel()
		a.activeView = viewMain
		return a.showStatus("Cancelled: no token provided", statusWarning)

	case syncSubmittedMsg:
		req, err := a.session.BeginSync(msg.kind, msg.sourceID, msg.targetID)
		if err != nil {
			a.sync = a.sync.failed(err)
			return a, nil
		}
		var cmd tea.Cmd
		a.sync, cmd = a.sync.startRunning()
		return a, tea.Batch(cmd, a.syncCmd(req))

	case syncDoneMsg:
		return a.finishSync(msg.out)

	case deleteDoneMsg:
		a.session.ApplyDelete(msg.res)
		a.refresh()
		if msg.res.Err != nil {
			return a.showStatus(fmt.Sprintf("Delete failed: %v", msg.res.Err), statusError)
		}
		return a.showStatus("Deleted "+msg.res.Key.ID, statusSuccess)

	case editorSaveMsg:
		p, err := a.session.BeginSave(msg.sourceID, msg.raw)
		if err != nil {
			a.editor = a.editor.reject(err)
			return a, nil
		}
		a.editor = a.editor.startSaving()
		return a, a.saveCmd(p)

	case saveDoneMsg:
		return a.finishSave(msg.res)

	case treeLoadedMsg:
		if msg.err != nil {
			a.activeView = viewMain
			return a.showStatus(fmt.Sprintf("Tree failed: %v", msg.err), statusError)
		}
		a.previewLoading = false
		a.viewport.SetContent(renderTree(msg.node))
		return a, nil

	case openPreviewMsg:
		return a.openPreview(msg)

	case previewRenderedMsg:
		a.previewLoading = false
		a.viewport.SetContent(msg.content)
		if msg.renderer != nil {
			a.glamourRenderer = msg.renderer
		}
		return a, nil

	case settingSubmittedMsg:
		return a, a.saveSettingCmd(msg.key, msg.value)

	case settingsSavedMsg:
		if msg.err != nil {
			a.settings = a.settings.rejected(msg.err)
			return a, nil
		}
		a.settings = a.settings.saved(msg.settings)
		return a.showStatus("Set "+msg.key, statusSuccess)

	case spinner.TickMsg:
		// Each spinner ignores ticks carrying another spinner's id.
		var cmds []tea.Cmd
		var cmd tea.Cmd
		a.status, cmd = a.status.update(msg)
		cmds = append(cmds, cmd)
		if a.previewLoading {
			a.previewSpinner, cmd = a.previewSpinner.Update(msg)
			cmds = append(cmds, cmd)
		}
		if a.credential.isRetrying() {
			a.credential, cmd = a.credential.update(msg)
			cmds = append(cmds, cmd)
		}
		if a.sync.running {
			a.sync, cmd = a.sync.update(msg)
			cmds = append(cmds, cmd)
		}
		return a, tea.Batch(cmds...)

	case statusDismissMsg:
		var cmd tea.Cmd
		a.status, cmd = a.status.update(msg)
		return a, cmd

	case statusMsg:
		return a.showStatus(msg.text, msg.kind)

	case errMsg:
		return a.showStatus(fmt.Sprintf("Error: %v", msg.err), statusError)

	case confirmResultMsg:
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)
	}

	// Cursor blinks and other internal messages go to the focused input.
	return a.delegate(msg)
}

// handleKey routes key presses: the confirm dialog first, then the active view.
func (a App) handleKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if a.confirm.active {
		var cmd tea.Cmd
		var consumed bool
		a.confirm, cmd, consumed = a.confirm.update(msg)
		if consumed {
			return a, cmd
		}
	}

	if msg.Type == tea.KeyCtrlC {
		return a, tea.Quit
	}

	switch a.activeView {
	case viewMain:
		return a.handleMainKey(msg)

	case viewPreview, viewTree:
		if key.Matches(msg, keys.Back) || key.Matches(msg, keys.Quit) {
			a.activeView = viewMain
			return a, nil
		}

	case viewPicker:
		if key.Matches(msg, keys.Back) && !a.picker.filtering() {
			a.activeView = viewMain
			return a, nil
		}

	case viewInstall:
		if key.Matches(msg, keys.Back) {
			a.activeView = viewMain
			return a, nil
		}

	case viewSync:
		if key.Matches(msg, keys.Back) && a.session.Bulk(a.sync.kind).Close() {
			a.activeView = viewMain
			return a, nil
		}

	case viewEditor:
		if key.Matches(msg, keys.Back) && !a.editor.saving {
			a.activeView = viewMain
			return a, nil
		}

	case viewSettings:
		if key.Matches(msg, keys.Back) && !a.settings.inputFocused() {
			a.activeView = viewMain
			return a, nil
		}
	}

	return a.delegate(msg)
}

// delegate forwards msg to the active sub-model.
func (a App) delegate(msg tea.Msg) (App, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewMain:
		before := a.highlighted()
		if a.tabs.active == tabMcp {
			a.mcp, cmd = a.mcp.update(msg)
		} else {
			a.skills, cmd = a.skills.update(msg)
		}
		if a.highlighted() != before {
			a.syncSelection()
		}
	case viewPicker:
		a.picker, cmd = a.picker.update(msg)
	case viewPreview, viewTree:
		a.viewport, cmd = a.viewport.Update(msg)
	case viewInstall:
		a.install, cmd = a.install.update(msg)
	case viewCredential:
		a.credential, cmd = a.credential.update(msg)
	case viewSync:
		a.sync, cmd = a.sync.update(msg)
	case viewEditor:
		a.editor, cmd = a.editor.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) handleMainKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if a.listFiltering() {
		return a.delegate(msg)
	}

	var cmd tea.Cmd
	var switched bool
	if a.tabs, cmd, switched = a.tabs.update(msg, false); switched {
		return a, cmd
	}

	kind := a.activeKind()
	switch {
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Scope):
		a.picker = a.picker.activate(a.session.Snapshot(), kind, a.activeScope())
		a.activeView = viewPicker
		return a, nil
	case key.Matches(msg, keys.Settings):
		a.activeView = viewSettings
		return a, nil
	case key.Matches(msg, keys.Refresh):
		return a, a.loadCmd()
	case key.Matches(msg, keys.Sync):
		if !a.session.SyncAvailable(kind) {
			return a, nil
		}
		if err := a.session.OpenSync(kind); err != nil {
			return a.showStatus(err.Error(), statusWarning)
		}
		a.sync = a.sync.activate(a.session.Snapshot(), kind, a.activeScope())
		a.activeView = viewSync
		return a, nil
	}

	if kind == engine.KindMcp {
		return a.handleMcpKey(msg)
	}
	return a.handleSkillsKey(msg)
}

func (a App) handleSkillsKey(msg tea.KeyMsg) (App, tea.Cmd) {
	if key.Matches(msg, keys.Install) {
		src, ok := a.session.Snapshot().SkillSource(a.session.SkillScope())
		if !ok {
			return a, nil
		}
		var cmd tea.Cmd
		a.install, cmd = a.install.activate(src.ID, src.Label)
		a.activeView = viewInstall
		return a, cmd
	}

	skill, ok := a.skills.selected()
	if !ok {
		return a.delegate(msg)
	}

	switch {
	case key.Matches(msg, keys.Enter):
		label := a.scopeLabel(engine.KindSkills, skill.SourceID)
		header := skillMetaHeader(skill, label)
		return a, func() tea.Msg {
			return openPreviewMsg{title: skill.Name, header: header, body: skill.Body}
		}

	case key.Matches(msg, keys.Tree):
		a.activeView = viewTree
		a.viewportTitle = skill.ID + "/"
		a.previewLoading = true
		a.resetViewport()
		return a, tea.Batch(a.previewSpinner.Tick, a.treeCmd(skill))

	case key.Matches(msg, keys.SyncLatest):
		req, err := engine.NewSyncLatestRequest(skill)
		if err != nil {
			return a.showStatus(err.Error(), statusError)
		}
		return a.beginInstall(req)

	case key.Matches(msg, keys.Delete):
		a.confirm = a.confirm.show(
			fmt.Sprintf("Delete skill %s from %s?", skill.ID, a.scopeLabel(engine.KindSkills, skill.SourceID)),
			shortenPath(skill.Path),
			a.deleteCmd(engine.KindSkills, skill.Key()),
		)
		return a, nil

	case key.Matches(msg, keys.Copy):
		return a, copyCmd("path", skill.Path)
	}

	return a.delegate(msg)
}

func (a App) handleMcpKey(msg tea.KeyMsg) (App, tea.Cmd) {
	src, ok := a.session.Snapshot().McpSource(a.session.McpScope())
	if !ok {
		return a, nil
	}

	if key.Matches(msg, keys.New) {
		var cmd tea.Cmd
		a.editor, cmd = a.editor.activate(src.ID, src.Label, "", engine.NewServerTemplate())
		a.activeView = viewEditor
		return a, cmd
	}

	item, ok := a.mcp.selected()
	if !ok {
		return a.delegate(msg)
	}

	switch {
	case key.Matches(msg, keys.Edit), key.Matches(msg, keys.Enter):
		doc, err := engine.ServerDocument(item.server)
		if err != nil {
			return a.showStatus(err.Error(), statusError)
		}
		var cmd tea.Cmd
		a.editor, cmd = a.editor.activate(src.ID, src.Label, item.server.ID, doc)
		a.activeView = viewEditor
		return a, cmd

	case key.Matches(msg, keys.Delete):
		a.confirm = a.confirm.show(
			fmt.Sprintf("Remove MCP server %s from %s?", item.server.ID, src.Label),
			shortenPath(src.Path),
			a.deleteCmd(engine.KindMcp, item.key()),
		)
		return a, nil

	case key.Matches(msg, keys.Copy):
		doc, err := engine.ServerDocument(item.server)
		if err != nil {
			return a.showStatus(err.Error(), statusError)
		}
		return a, copyCmd("server JSON", doc)
	}

	return a.delegate(msg)
}

// --- Install flow ---

func (a App) startInstall(msg installSubmittedMsg) (App, tea.Cmd) {
	req, err := engine.NewInstallRequest(msg.sourceID, msg.url)
	if err != nil {
		a.install = a.install.reject(err)
		return a, nil
	}
	return a.beginInstall(req)
}

func (a App) beginInstall(req engine.InstallRequest) (App, tea.Cmd) {
	attempt, err := a.session.StartInstall(req, "")
	if err != nil {
		if errors.Is(err, engine.ErrBusy) {
			return a.showStatus("Another install is in progress", statusWarning)
		}
		a.install = a.install.reject(err)
		return a, nil
	}
	a.activeView = viewMain
	return a, a.installCmd(attempt)
}

func (a App) finishInstall(res engine.InstallResult) (App, tea.Cmd) {
	req := res.Attempt.Request
	switch a.session.ApplyInstall(res) {
	case engine.InstallDone:
		if a.activeView == viewCredential {
			a.activeView = viewMain
		}
		a.tabs.active = tabSkills
		a.refresh()
		text := fmt.Sprintf("Installed %s into %s", res.Skill.ID, a.scopeLabel(engine.KindSkills, res.Skill.SourceID))
		if req.Op == engine.OpSyncLatest {
			text = fmt.Sprintf("Synced %s to latest", res.Skill.ID)
		}
		kind := statusSuccess
		if res.Reload.Err != nil {
			text += "; reload failed: " + res.Reload.Err.Error()
			kind = statusWarning
		}
		persist := a.persistScopesCmd()
		var cmd tea.Cmd
		a, cmd = a.showStatus(text, kind)
		return a, tea.Batch(cmd, persist)

	case engine.InstallAwaitingToken:
		var cmd tea.Cmd
		a.credential, cmd = a.credential.activate(req, res.Err)
		a.activeView = viewCredential
		return a, cmd

	case engine.InstallFailed:
		if a.activeView == viewCredential {
			a.activeView = viewMain
		}
		return a.showStatus(fmt.Sprintf("%s failed: %v", opLabel(req.Op), res.Err), statusError)
	}
	return a, nil
}

func opLabel(op engine.InstallOp) string {
	if op == engine.OpSyncLatest {
		return "Sync"
	}
	return "Install"
}

// --- Bulk sync ---

func (a App) finishSync(out engine.SyncOutcome) (App, tea.Cmd) {
	state := a.session.ApplySync(out)
	a.refresh()
	if state != engine.BulkDone {
		a.sync = a.sync.setSnapshot(a.session.Snapshot()).failed(out.Err)
		return a, nil
	}
	a.session.Bulk(out.Request.Kind).Close()
	if a.activeView == viewSync {
		a.activeView = viewMain
	}
	req := out.Request
	return a.showStatus(fmt.Sprintf("Synced %s from %s to %s: added %d, skipped %d",
		req.Kind, req.SourceID, req.TargetID, out.Result.Added, out.Result.Skipped), statusSuccess)
}

// --- MCP save ---

func (a App) finishSave(res engine.SaveResult) (App, tea.Cmd) {
	a.session.ApplySave(res)
	if res.Err != nil {
		if a.activeView == viewEditor {
			a.editor = a.editor.reject(res.Err)
			return a, nil
		}
		return a.showStatus(fmt.Sprintf("Save failed: %v", res.Err), statusError)
	}
	if ids := res.Payload.ServerIDs; len(ids) > 0 {
		a.session.Select(engine.SelectMcp(core.Key{SourceID: res.Payload.SourceID, ID: ids[0]}))
	}
	if a.activeView == viewEditor {
		a.activeView = viewMain
	}
	a.refresh()
	return a.showStatus(fmt.Sprintf("Saved %d MCP server(s) to %s: %s",
		len(res.Payload.ServerIDs), a.scopeLabel(engine.KindMcp, res.Payload.SourceID),
		strings.Join(res.Payload.ServerIDs, ", ")), statusSuccess)
}

// --- Preview ---

func (a App) openPreview(msg openPreviewMsg) (App, tea.Cmd) {
	a.activeView = viewPreview
	a.viewportTitle = msg.title
	a.previewLoading = true
	a.resetViewport()

	w := a.viewport.Width
	header := msg.header
	body := msg.body
	cached := a.glamourRenderer
	render := func() tea.Msg {
		r := cached
		if r == nil {
			var err error
			r, err = glamour.NewTermRenderer(
				glamour.WithAutoStyle(),
				glamour.WithWordWrap(w),
			)
			if err != nil {
				return previewRenderedMsg{content: header + "\n" + body}
			}
		}
		rendered, err := r.Render(body)
		if err != nil {
			rendered = body
		}
		return previewRenderedMsg{
			content:  header + "\n" + strings.TrimRight(rendered, "\n"),
			renderer: r,
		}
	}
	return a, tea.Batch(a.previewSpinner.Tick, render)
}

func (a *App) resetViewport() {
	w, h := a.innerContentSize()
	// Title line, blank line, then the footer and its separator.
	a.viewport = viewport.New(w, max(0, h-4))
}

// skillMetaHeader renders the metadata block shown above a skill body.
func skillMetaHeader(s core.Skill, sourceLabel string) string {
	rows := [][2]string{
		{"Name", s.Name},
		{"ID", s.ID},
		{"Agent", sourceLabel},
		{"Path", shortenPath(s.Path)},
		{"Core file", s.CoreFile},
	}
	if s.Description != "" {
		rows = append(rows, [2]string{"Description", s.Description})
	}
	if s.SourceURL != "" {
		rows = append(rows, [2]string{"Origin", s.SourceURL})
	}
	if ts := engine.FormatLastModified(s.LastModified); ts != "" {
		rows = append(rows, [2]string{"Modified", ts})
	}
	for _, k := range sortedKeys(s.Metadata) {
		if k == "name" || k == "description" {
			continue
		}
		rows = append(rows, [2]string{k, s.Metadata[k]})
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = "  " + metaKeyStyle.Render(r[0]) + metaValueStyle.Render(r[1])
	}
	return strings.Join(lines, "\n") + "\n"
}

// --- Commands ---

func (a App) loadCmd() tea.Cmd {
	runner, ctx := a.runner, a.ctx
	return func() tea.Msg {
		snap, err := runner.Load(ctx)
		return loadedMsg{snap: snap, err: err}
	}
}

func (a App) installCmd(attempt engine.Attempt) tea.Cmd {
	runner, ctx := a.runner, a.ctx
	return func() tea.Msg {
		return installDoneMsg{res: runner.Install(ctx, attempt)}
	}
}

func (a App) syncCmd(req engine.SyncRequest) tea.Cmd {
	runner, ctx := a.runner, a.ctx
	return func() tea.Msg {
		return syncDoneMsg{out: runner.SyncCollection(ctx, req)}
	}
}

func (a App) deleteCmd(kind engine.Kind, k core.Key) tea.Cmd {
	runner, ctx := a.runner, a.ctx
	return func() tea.Msg {
		return deleteDoneMsg{res: runner.Delete(ctx, kind, k)}
	}
}

func (a App) saveCmd(p engine.ValidatedPayload) tea.Cmd {
	runner, ctx := a.runner, a.ctx
	return func() tea.Msg {
		return saveDoneMsg{res: runner.SaveMcp(ctx, p)}
	}
}

func (a App) treeCmd(s core.Skill) tea.Cmd {
	runner, ctx := a.runner, a.ctx
	return func() tea.Msg {
		node, err := runner.Tree(ctx, s.Key())
		return treeLoadedMsg{title: s.ID, node: node, err: err}
	}
}

// persistScopesCmd remembers the scoped agents for the next start.
func (a App) persistScopesCmd() tea.Cmd {
	if a.config == nil {
		return nil
	}
	cfg := a.config
	skill, mcp := a.session.SkillScope(), a.session.McpScope()
	return func() tea.Msg {
		err := cfg.Update(func(s *core.Settings) error {
			s.LastSkillSource = skill
			s.LastMcpSource = mcp
			return nil
		})
		if err != nil {
			logger.Warnw("saving agent scope failed", "error", err)
			return errMsg{err: fmt.Errorf("saving agent scope: %w", err)}
		}
		return nil
	}
}

func (a App) saveSettingCmd(k, value string) tea.Cmd {
	cfg := a.config
	return func() tea.Msg {
		if cfg == nil {
			return settingsSavedMsg{key: k, err: errors.New("no configuration file")}
		}
		if err := cfg.Update(func(s *core.Settings) error { return s.Set(k, value) }); err != nil {
			return settingsSavedMsg{key: k, err: err}
		}
		c, err := cfg.Load()
		if err != nil {
			return settingsSavedMsg{key: k, err: err}
		}
		return settingsSavedMsg{key: k, settings: c.Settings}
	}
}

// --- Session plumbing ---

func (a App) activeKind() engine.Kind {
	if a.tabs.active == tabMcp {
		return engine.KindMcp
	}
	return engine.KindSkills
}

func (a App) activeScope() string {
	if a.tabs.active == tabMcp {
		return a.session.McpScope()
	}
	return a.session.SkillScope()
}

func (a App) scopeLabel(kind engine.Kind, id string) string {
	snap := a.session.Snapshot()
	if kind == engine.KindMcp {
		if src, ok := snap.McpSource(id); ok {
			return src.Label
		}
		return id
	}
	if src, ok := snap.SkillSource(id); ok {
		return src.Label
	}
	return id
}

// refresh pushes the session's snapshot, scopes and selection into the
// sub-models.
func (a *App) refresh() {
	snap := a.session.Snapshot()
	sel := a.session.Selection()

	skillSrc, _ := snap.SkillSource(a.session.SkillScope())
	selected := ""
	if sel.Kind == engine.SelectedSkill && sel.Key.SourceID == skillSrc.ID {
		selected = sel.Key.ID
	}
	a.skills = a.skills.setData(skillSrc, selected)

	mcpSrc, _ := snap.McpSource(a.session.McpScope())
	selected = ""
	if sel.Kind == engine.SelectedMcp && sel.Key.SourceID == mcpSrc.ID {
		selected = sel.Key.ID
	}
	a.mcp = a.mcp.setData(mcpSrc, selected)

	a.tabs = a.tabs.setCounts(len(skillSrc.Skills), len(mcpSrc.Servers))
}

// highlighted returns the row under the cursor of the active tab.
func (a App) highlighted() engine.Selection {
	if a.tabs.active == tabMcp {
		if item, ok := a.mcp.selected(); ok {
			return engine.SelectMcp(item.key())
		}
		return engine.None()
	}
	if s, ok := a.skills.selected(); ok {
		return engine.SelectSkill(s.Key())
	}
	return engine.None()
}

// syncSelection records the highlighted row of the active tab as the
// session's selection. Only user actions call it.
func (a *App) syncSelection() {
	a.session.Select(a.highlighted())
}

func (a App) showStatus(text string, kind statusMsgKind) (App, tea.Cmd) {
	var cmd tea.Cmd
	a.status, cmd = a.status.showMsg(text, kind)
	return a, cmd
}

func (a App) listFiltering() bool {
	if a.tabs.active == tabMcp {
		return a.mcp.filtering()
	}
	return a.skills.filtering()
}

// --- View ---

func (a App) View() string {
	if !a.ready {
		return "Loading..."
	}

	header := a.renderHeader()
	statusBar := a.status.view(a.renderHelp())

	chromeH := lipgloss.Height(header) + lipgloss.Height(statusBar)
	// Width and Height include padding but not the border.
	innerW := max(0, a.width-contentStyle.GetHorizontalBorderSize())
	innerH := max(0, a.height-chromeH-contentStyle.GetVerticalBorderSize())
	textW, textH := a.innerContentSize()

	var content string
	switch a.activeView {
	case viewMain:
		content = a.renderMain()
	case viewPicker:
		content = a.picker.view()
	case viewPreview, viewTree:
		content = a.renderViewport()
	case viewInstall:
		content = a.install.view()
	case viewCredential:
		content = a.credential.view()
	case viewSync:
		content = a.sync.view()
	case viewEditor:
		content = a.editor.view()
	case viewSettings:
		content = a.settings.view()
	}
	if a.confirm.active {
		content = a.confirm.view()
	}

	content = clampHeight(clampWidth(content, textW), textH)
	styled := contentStyle.Width(innerW).Height(innerH).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, styled, statusBar)
}

func (a App) renderMain() string {
	tabs := a.tabs.view() + "\n"
	if a.tabs.active == tabMcp {
		return tabs + a.mcp.view()
	}
	return tabs + a.skills.view()
}

func (a App) renderHeader() string {
	logo := logoStyle.Render("ananke")
	scope := headerScopeStyle.Render(a.scopeLabel(a.activeKind(), a.activeScope()))

	var hint string
	switch a.activeView {
	case viewMain:
		hint = "[a] agent  [s] settings"
		if a.version != "" {
			hint += "  " + a.version
		}
	case viewPicker:
		hint = "Select Agent"
	case viewPreview:
		hint = a.viewportTitle
	case viewTree:
		hint = "Tree"
	case viewInstall:
		hint = "Install Skill"
	case viewCredential:
		hint = a.credential.title()
	case viewSync:
		hint = a.sync.title()
	case viewEditor:
		hint = a.editor.title()
	case viewSettings:
		hint = "Settings"
	}
	hints := headerHintStyle.Render(hint)

	left := lipgloss.JoinHorizontal(lipgloss.Top, " ", logo, " ", scope)
	gap := max(1, a.width-lipgloss.Width(left)-lipgloss.Width(hints)-1)
	return left + strings.Repeat(" ", gap) + hints
}

func (a App) renderHelp() string {
	var km help.KeyMap
	switch a.activeView {
	case viewMain:
		if a.tabs.active == tabMcp {
			km = mcpHelpKeyMap{canSync: a.session.SyncAvailable(engine.KindMcp)}
		} else {
			km = skillsHelpKeyMap{canSync: a.session.SyncAvailable(engine.KindSkills)}
		}
	case viewPicker:
		km = pickerHelpKeyMap{}
	case viewPreview, viewTree:
		km = viewportHelpKeyMap{}
	case viewInstall:
		km = inputHelpKeyMap{}
	case viewCredential:
		km = credentialHelpKeyMap{retrying: a.credential.isRetrying()}
	case viewSync:
		km = syncHelpKeyMap{running: a.sync.running}
	case viewEditor:
		km = editorHelpKeyMap{}
	case viewSettings:
		km = settingsHelpKeyMap{editing: a.settings.inputFocused()}
	}
	return " " + helpStyle.Render(a.help.View(km))
}

func (a App) renderViewport() string {
	w, _ := a.innerContentSize()
	title := viewportTitleStyle.Render(" " + a.viewportTitle + " ")
	line := strings.Repeat("─", max(0, w-lipgloss.Width(title)))
	header := lipgloss.JoinHorizontal(lipgloss.Center, title, mutedStyle.Render(line))

	if a.previewLoading {
		return header + "\n\n" + a.previewSpinner.View() + " Loading..."
	}
	pct := fmt.Sprintf(" %3.0f%% ", a.viewport.ScrollPercent()*100)
	return header + "\n\n" + a.viewport.View() + "\n\n" + previewPctStyle.Render(pct)
}

func (a *App) propagateSize() {
	w, h := a.innerContentSize()
	// The tab bar takes two lines plus a blank one.
	a.skills = a.skills.setSize(w, max(1, h-3))
	a.mcp = a.mcp.setSize(w, max(1, h-3))
	a.picker = a.picker.setSize(w, h)
	a.install = a.install.setSize(w, h)
	a.credential = a.credential.setSize(w, h)
	a.sync = a.sync.setSize(w, h)
	a.editor = a.editor.setSize(w, h)
	a.settings = a.settings.setSize(w, h)
	a.confirm = a.confirm.setSize(w, h)
	if a.activeView == viewPreview || a.activeView == viewTree {
		a.viewport.Width = w
		a.viewport.Height = max(0, h-4)
	}
}

// innerContentSize is the text area inside contentStyle after border and
// padding, given one header line and one status line.
func (a App) innerContentSize() (width, height int) {
	const chromeH = 2
	width = max(0, a.width-contentStyle.GetHorizontalFrameSize())
	height = max(0, a.height-chromeH-contentStyle.GetVerticalFrameSize())
	return width, height
}

// clampHeight truncates content to at most maxLines lines so an oversized
// view cannot push the header off-screen.
func clampHeight(content string, maxLines int) string {
	if maxLines <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	if len(lines) <= maxLines {
		return content
	}
	return strings.Join(lines[:maxLines], "\n")
}

// clampWidth truncates each line to maxWidth visible cells (ANSI aware) so
// lipgloss does not wrap lines inside the Width()-constrained box.
func clampWidth(content string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	lines := strings.Split(content, "\n")
	for i, line := range lines {
		if lipgloss.Width(line) > maxWidth {
			lines[i] = ansi.Truncate(line, maxWidth, "")
		}
	}
	return strings.Join(lines, "\n")
}

// shortenPath returns a display path using ~ for the home directory.
func shortenPath(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || path == "" {
		return path
	}
	if rel, err := filepath.Rel(home, path); err == nil && !strings.HasPrefix(rel, "..") {
		if rel == "." {
			return "~"
		}
		return filepath.Join("~", rel)
	}
	return path
}
