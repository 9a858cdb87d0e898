package gui

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"github.com/zhuww/arxiv-news-app/internal"
	"github.com/zhuww/arxiv-news-app/internal/autostart"
	"github.com/zhuww/arxiv-news-app/internal/config"
	"github.com/zhuww/arxiv-news-app/internal/favorites"
	"github.com/zhuww/arxiv-news-app/internal/playback"
	"github.com/zhuww/arxiv-news-app/internal/processor"
	"github.com/zhuww/arxiv-news-app/internal/reminder"
	"github.com/zhuww/arxiv-news-app/internal/speech"
)

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// Paper list UI
	paperList    *widget.List
	titleLabel   *widget.Label
	authorsLabel *widget.Label
	summaryEntry *widget.Entry
	statusLabel  *widget.Label
	audioPlayer  *AudioPlayer
	logViewer    *LogViewer

	// Toolbar buttons
	fetchButton    *ttwidget.Button
	prevButton     *ttwidget.Button
	nextButton     *ttwidget.Button
	favoriteButton *ttwidget.Button

	// Favorites tab
	favoritesList *widget.List

	// State management
	items        []processor.Item
	currentIndex int
	session      *playback.Session

	// Core services
	config    *config.Config
	proc      *processor.Processor
	favorites *favorites.Store
	reminder  *reminder.Reminder

	// Background processing
	ctx    context.Context
	cancel context.CancelFunc
	mu     sync.Mutex
}

// New creates a new GUI application
func New(cfg *config.Config, proc *processor.Processor, favs *favorites.Store) *Application {
	ctx, cancel := context.WithCancel(context.Background())

	myApp := app.NewWithID("org.arxiv-news.reader")

	a := &Application{
		app:          myApp,
		config:       cfg,
		proc:         proc,
		favorites:    favs,
		ctx:          ctx,
		cancel:       cancel,
		currentIndex: -1,
	}

	a.setupUI()
	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow(fmt.Sprintf("arXiv News v%s - Spoken Paper Announcements", internal.Version))
	a.window.Resize(fyne.NewSize(900, 700))

	// Toolbar
	a.fetchButton = ttwidget.NewButton("Fetch", a.onFetch)
	a.fetchButton.Icon = theme.ViewRefreshIcon()

	a.prevButton = ttwidget.NewButton("", a.onPrev)
	a.prevButton.Icon = theme.NavigateBackIcon()
	a.prevButton.Disable()

	a.nextButton = ttwidget.NewButton("", a.onNext)
	a.nextButton.Icon = theme.NavigateNextIcon()
	a.nextButton.Disable()

	a.favoriteButton = ttwidget.NewButton("", a.onToggleFavorite)
	a.favoriteButton.Icon = theme.ContentAddIcon()
	a.favoriteButton.Disable()

	toolbar := container.NewHBox(
		a.fetchButton,
		widget.NewSeparator(),
		a.prevButton,
		a.nextButton,
		widget.NewSeparator(),
		a.favoriteButton,
	)

	// Paper list
	a.paperList = widget.NewList(
		func() int { return len(a.items) },
		func() fyne.CanvasObject { return widget.NewLabel("paper title") },
		func(i widget.ListItemID, o fyne.CanvasObject) {
			label := o.(*widget.Label)
			label.Truncation = fyne.TextTruncateEllipsis
			label.SetText(a.items[i].Paper.Title)
		},
	)
	a.paperList.OnSelected = func(i widget.ListItemID) {
		a.selectPaper(i, a.config.AutoPlay)
	}

	// Detail pane
	a.titleLabel = widget.NewLabel("")
	a.titleLabel.TextStyle = fyne.TextStyle{Bold: true}
	a.titleLabel.Wrapping = fyne.TextWrapWord

	a.authorsLabel = widget.NewLabel("")
	a.authorsLabel.Wrapping = fyne.TextWrapWord

	a.summaryEntry = widget.NewMultiLineEntry()
	a.summaryEntry.Wrapping = fyne.TextWrapWord
	a.summaryEntry.Disable()

	a.audioPlayer = NewAudioPlayer()
	a.audioPlayer.SetOnFinished(a.onPlaybackFinished)

	a.statusLabel = widget.NewLabel("Ready. Press Fetch to look for new papers.")

	detail := container.NewBorder(
		container.NewVBox(a.titleLabel, a.authorsLabel, widget.NewSeparator()),
		container.NewVBox(widget.NewSeparator(), a.audioPlayer, a.statusLabel),
		nil, nil,
		a.summaryEntry,
	)

	split := container.NewHSplit(a.paperList, detail)
	split.SetOffset(0.35)

	readerTab := container.NewBorder(
		container.NewVBox(toolbar, widget.NewSeparator()),
		nil, nil, nil,
		split,
	)

	// Log viewer
	a.logViewer = NewLogViewer()
	a.logViewer.StartCapture()

	tabs := container.NewAppTabs(
		container.NewTabItemWithIcon("Papers", theme.DocumentIcon(), readerTab),
		container.NewTabItemWithIcon("Favorites", theme.ConfirmIcon(), a.makeFavoritesTab()),
		container.NewTabItemWithIcon("Settings", theme.SettingsIcon(), a.makeSettingsTab()),
		container.NewTabItemWithIcon("Log", theme.ListIcon(), a.logViewer),
	)

	// Add the tooltip layer to enable tooltips
	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(tabs, a.window.Canvas()))

	// Now that tooltip layer is created, set all tooltips
	a.fetchButton.SetToolTip("Fetch new papers (f)")
	a.prevButton.SetToolTip("Previous paper")
	a.nextButton.SetToolTip("Next paper (n)")
	a.favoriteButton.SetToolTip("Add to favorites (s)")

	a.window.SetOnClosed(func() {
		a.audioPlayer.Stop()
		a.cancel()
		a.mu.Lock()
		if a.session != nil {
			a.session.Invalidate()
		}
		a.mu.Unlock()
		a.logViewer.StopCapture()
	})

	a.setupKeyboardShortcuts()
}

// Run starts the GUI application and the reminder loop. The loop always
// runs; it reads the enabled setting on each tick so toggling it in the
// settings tab takes effect immediately.
func (a *Application) Run() {
	a.reminder = reminder.New(reminder.Config{
		StartHour: a.config.Reminder.StartHour,
		EndHour:   a.config.Reminder.EndHour,
		DataDir:   a.config.DataDir,
		Enabled:   func() bool { return a.config.Reminder.Enabled },
	}, a.proc.CountNew, a.showReminder)
	go a.reminder.Run(a.ctx)

	a.window.ShowAndRun()
}

func (a *Application) setupKeyboardShortcuts() {
	a.window.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyF:
			a.onFetch()
		case fyne.KeyP:
			a.audioPlayer.Play()
		case fyne.KeyN:
			a.onNext()
		case fyne.KeyS:
			a.onToggleFavorite()
		}
	})
}

// onFetch pulls new papers and starts pregenerating their audio.
func (a *Application) onFetch() {
	a.fetchButton.Disable()
	a.statusLabel.SetText("Fetching papers from arXiv...")

	go func() {
		items, err := a.proc.FetchNew(a.ctx)

		fyne.Do(func() {
			a.fetchButton.Enable()
			if err != nil {
				a.statusLabel.SetText("Fetch failed")
				dialog.ShowError(fmt.Errorf("failed to fetch papers: %w", err), a.window)
				return
			}
			if len(items) == 0 {
				a.statusLabel.SetText("No new papers found.")
				return
			}

			a.mu.Lock()
			if a.session != nil {
				a.session.Invalidate()
			}
			a.items = items
			a.session = a.proc.NewSession(items)
			a.session.Start(a.ctx)
			a.mu.Unlock()

			a.currentIndex = -1
			a.paperList.Refresh()
			a.statusLabel.SetText(fmt.Sprintf("Found %d new papers.", len(items)))
			a.paperList.Select(0)
		})
	}()
}

// selectPaper shows a paper's details and optionally plays its audio once
// the pregenerated file is ready.
func (a *Application) selectPaper(index int, play bool) {
	if index < 0 || index >= len(a.items) {
		return
	}
	a.currentIndex = index
	item := a.items[index]

	a.titleLabel.SetText(item.Paper.Title)
	a.authorsLabel.SetText(strings.Join(item.Paper.Authors, ", "))
	a.summaryEntry.SetText(item.Summary)
	a.updateNavigation()
	a.updateFavoriteButton()

	a.audioPlayer.SetAudioFile("")
	a.statusLabel.SetText("Preparing audio...")

	a.mu.Lock()
	session := a.session
	a.mu.Unlock()
	if session == nil {
		return
	}

	go func() {
		// The file stays on disk so the user can replay the paper;
		// Invalidate deletes it on the next fetch or window close.
		audioFile, err := session.WaitReady(a.ctx, index)

		fyne.Do(func() {
			// The user may have moved on while we waited.
			if a.currentIndex != index {
				return
			}
			if err != nil {
				a.statusLabel.SetText("Audio generation failed")
				a.logViewer.Log("Audio for %q failed: %v", item.Paper.Title, err)
				return
			}
			a.statusLabel.SetText("Audio ready.")
			a.audioPlayer.SetAudioFile(audioFile)
			if play {
				a.audioPlayer.Play()
			}
		})
	}()
}

// onPlaybackFinished marks the paper announced and chains to the next one.
func (a *Application) onPlaybackFinished() {
	if a.currentIndex < 0 || a.currentIndex >= len(a.items) {
		return
	}
	paperID := a.items[a.currentIndex].Paper.ID
	go func() {
		if err := a.proc.MarkAnnounced(a.ctx, paperID); err != nil {
			a.logViewer.Log("Failed to mark %s announced: %v", paperID, err)
		}
	}()

	if a.config.AutoPlay && a.currentIndex+1 < len(a.items) {
		a.paperList.Select(a.currentIndex + 1)
	}
}

func (a *Application) onPrev() {
	if a.currentIndex > 0 {
		a.paperList.Select(a.currentIndex - 1)
	}
}

func (a *Application) onNext() {
	if a.currentIndex+1 < len(a.items) {
		a.paperList.Select(a.currentIndex + 1)
	}
}

func (a *Application) updateNavigation() {
	if a.currentIndex > 0 {
		a.prevButton.Enable()
	} else {
		a.prevButton.Disable()
	}
	if a.currentIndex+1 < len(a.items) {
		a.nextButton.Enable()
	} else {
		a.nextButton.Disable()
	}
}

// onToggleFavorite stars or unstars the current paper.
func (a *Application) onToggleFavorite() {
	if a.currentIndex < 0 || a.currentIndex >= len(a.items) {
		return
	}
	item := a.items[a.currentIndex]

	var err error
	if a.favorites.Contains(item.Paper.ID) {
		err = a.favorites.Remove(item.Paper.ID)
	} else {
		err = a.favorites.Add(item.Paper, item.Summary)
	}
	if err != nil {
		dialog.ShowError(err, a.window)
		return
	}
	a.updateFavoriteButton()
	a.favoritesList.Refresh()
}

func (a *Application) updateFavoriteButton() {
	if a.currentIndex < 0 || a.currentIndex >= len(a.items) {
		a.favoriteButton.Disable()
		return
	}
	a.favoriteButton.Enable()
	if a.favorites.Contains(a.items[a.currentIndex].Paper.ID) {
		a.favoriteButton.SetIcon(theme.ContentRemoveIcon())
		a.favoriteButton.SetToolTip("Remove from favorites (s)")
	} else {
		a.favoriteButton.SetIcon(theme.ContentAddIcon())
		a.favoriteButton.SetToolTip("Add to favorites (s)")
	}
}

// makeFavoritesTab builds the starred-papers view.
func (a *Application) makeFavoritesTab() fyne.CanvasObject {
	statusLabel := widget.NewLabel("")

	a.favoritesList = widget.NewList(
		func() int { return len(a.favorites.List()) },
		func() fyne.CanvasObject {
			title := widget.NewLabel("paper title")
			title.Truncation = fyne.TextTruncateEllipsis
			pdfBtn := widget.NewButtonWithIcon("", theme.DocumentSaveIcon(), nil)
			removeBtn := widget.NewButtonWithIcon("", theme.DeleteIcon(), nil)
			return container.NewBorder(nil, nil, nil, container.NewHBox(pdfBtn, removeBtn), title)
		},
		func(i widget.ListItemID, o fyne.CanvasObject) {
			entries := a.favorites.List()
			if i >= len(entries) {
				return
			}
			entry := entries[i]
			border := o.(*fyne.Container)
			title := border.Objects[0].(*widget.Label)
			buttons := border.Objects[1].(*fyne.Container)
			pdfBtn := buttons.Objects[0].(*widget.Button)
			removeBtn := buttons.Objects[1].(*widget.Button)

			title.SetText(entry.Paper.Title)

			paperID := entry.Paper.ID
			pdfBtn.OnTapped = func() {
				statusLabel.SetText("Downloading PDF...")
				go func() {
					path, err := a.favorites.DownloadPDF(paperID)
					fyne.Do(func() {
						if err != nil {
							statusLabel.SetText("PDF download failed")
							dialog.ShowError(err, a.window)
							return
						}
						statusLabel.SetText(fmt.Sprintf("Saved: %s", path))
					})
				}()
			}
			removeBtn.OnTapped = func() {
				if err := a.favorites.Remove(paperID); err != nil {
					dialog.ShowError(err, a.window)
					return
				}
				a.favoritesList.Refresh()
				a.updateFavoriteButton()
			}
		},
	)

	return container.NewBorder(
		widget.NewLabel("Starred papers:"),
		statusLabel,
		nil, nil,
		a.favoritesList,
	)
}

// makeSettingsTab builds the configuration form.
func (a *Application) makeSettingsTab() fyne.CanvasObject {
	keywordsEntry := widget.NewEntry()
	keywordsEntry.SetText(strings.Join(a.config.Search.Keywords, ", "))

	fieldsEntry := widget.NewEntry()
	fieldsEntry.SetText(strings.Join(a.config.Search.Fields, ", "))

	maxResultsEntry := widget.NewEntry()
	maxResultsEntry.SetText(strconv.Itoa(a.config.Search.MaxResults))

	voiceSelect := widget.NewSelect(speech.ListEdgeVoices(a.config.Language), nil)
	voiceSelect.SetSelected(a.config.Speech.EdgeVoice)

	autoPlayCheck := widget.NewCheck("Play announcements automatically", nil)
	autoPlayCheck.SetChecked(a.config.AutoPlay)

	reminderCheck := widget.NewCheck("Remind me about new papers during working hours", nil)
	reminderCheck.SetChecked(a.config.Reminder.Enabled)

	skipTodayBtn := widget.NewButton("Skip reminders for today", func() {
		if a.reminder != nil {
			a.reminder.SkipToday()
			a.logViewer.Log("Reminders skipped for the rest of today")
		}
	})

	registered, _ := autostart.IsRegistered()
	autostartCheck := widget.NewCheck("Launch at login", nil)
	autostartCheck.SetChecked(registered)
	autostartCheck.OnChanged = func(on bool) {
		var err error
		if on {
			err = autostart.Register()
		} else {
			err = autostart.Unregister()
		}
		if err != nil {
			dialog.ShowError(err, a.window)
			autostartCheck.SetChecked(!on)
		}
	}

	applyBtn := widget.NewButton("Apply", func() {
		keywords := splitCommaList(keywordsEntry.Text)
		if len(keywords) == 0 {
			dialog.ShowError(fmt.Errorf("at least one keyword is required"), a.window)
			return
		}
		maxResults, err := strconv.Atoi(strings.TrimSpace(maxResultsEntry.Text))
		if err != nil || maxResults <= 0 {
			dialog.ShowError(fmt.Errorf("max results must be a positive number"), a.window)
			return
		}

		a.config.Search.Keywords = keywords
		a.config.Search.Fields = splitCommaList(fieldsEntry.Text)
		a.config.Search.MaxResults = maxResults
		if voiceSelect.Selected != "" && voiceSelect.Selected != a.config.Speech.EdgeVoice {
			a.config.Speech.EdgeVoice = voiceSelect.Selected
			if err := a.proc.ReloadSpeech(); err != nil {
				dialog.ShowError(err, a.window)
				return
			}
		}
		a.config.AutoPlay = autoPlayCheck.Checked
		a.config.Reminder.Enabled = reminderCheck.Checked

		a.logViewer.Log("Settings applied")
	})

	form := widget.NewForm(
		widget.NewFormItem("Keywords", keywordsEntry),
		widget.NewFormItem("Fields", fieldsEntry),
		widget.NewFormItem("Max results", maxResultsEntry),
		widget.NewFormItem("Voice", voiceSelect),
	)

	return container.NewVBox(
		form,
		autoPlayCheck,
		reminderCheck,
		autostartCheck,
		widget.NewSeparator(),
		container.NewHBox(applyBtn, skipTodayBtn),
	)
}

// showReminder pops up the new-papers notification from the reminder loop.
func (a *Application) showReminder(count int) {
	fyne.Do(func() {
		message := fmt.Sprintf("%d new papers match your keywords.", count)
		d := dialog.NewCustomConfirm("New arXiv Papers", "Read now", "Skip today", widget.NewLabel(message),
			func(read bool) {
				if read {
					a.onFetch()
					return
				}
				if a.reminder != nil {
					a.reminder.SkipToday()
				}
			}, a.window)
		d.Show()
		a.window.RequestFocus()
	})
}

// splitCommaList parses a comma separated entry into trimmed tokens.
func splitCommaList(text string) []string {
	var out []string
	for _, part := range strings.Split(text, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
