package manager

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/mateusz-kow/Auto-Subs/internal/logging"
	"github.com/mateusz-kow/Auto-Subs/internal/project"
)

// ProjectOpenedListener receives the opened project path.
type ProjectOpenedListener interface {
	OnProjectOpened(string)
}

// ProjectSavedListener receives the saved project path.
type ProjectSavedListener interface {
	OnProjectSaved(string)
}

// ProjectClosedListener fires when the open project is closed.
type ProjectClosedListener interface {
	OnProjectClosed()
}

// ProjectLoadFailedListener receives project loading errors.
type ProjectLoadFailedListener interface {
	OnProjectLoadFailed(error)
}

// ProjectSaveFailedListener receives project saving errors.
type ProjectSaveFailedListener interface {
	OnProjectSaveFailed(error)
}

// ProjectManager composes the video, subtitles and style managers into a
// single openable/saveable project.
type ProjectManager struct {
	mu  sync.Mutex
	log *logging.Logger

	video     *VideoManager
	subtitles *SubtitlesManager
	style     *StyleManager

	scratchRoot string
	currentPath string

	openedListeners     []func(string)
	savedListeners      []func(string)
	closedListeners     []func(struct{})
	loadFailedListeners []func(error)
	saveFailedListeners []func(error)
}

func NewProjectManager(
	log *logging.Logger,
	video *VideoManager,
	subtitles *SubtitlesManager,
	styleManager *StyleManager,
	scratchRoot string,
) *ProjectManager {
	return &ProjectManager{
		log:         log.Named("project"),
		video:       video,
		subtitles:   subtitles,
		style:       styleManager,
		scratchRoot: scratchRoot,
	}
}

// RegisterListener subscribes the candidate to every project event whose
// listener interface it implements.
func (m *ProjectManager) RegisterListener(candidate any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l, ok := candidate.(ProjectOpenedListener); ok {
		m.openedListeners = append(m.openedListeners, l.OnProjectOpened)
	}
	if l, ok := candidate.(ProjectSavedListener); ok {
		m.savedListeners = append(m.savedListeners, l.OnProjectSaved)
	}
	if l, ok := candidate.(ProjectClosedListener); ok {
		closed := l
		m.closedListeners = append(m.closedListeners, func(struct{}) {
			closed.OnProjectClosed()
		})
	}
	if l, ok := candidate.(ProjectLoadFailedListener); ok {
		m.loadFailedListeners = append(m.loadFailedListeners, l.OnProjectLoadFailed)
	}
	if l, ok := candidate.(ProjectSaveFailedListener); ok {
		m.saveFailedListeners = append(m.saveFailedListeners, l.OnProjectSaveFailed)
	}
}

// CurrentPath returns the open project's path, empty when none is open.
func (m *ProjectManager) CurrentPath() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.currentPath
}

// Open loads a project archive and applies it to the composed managers.
// The archive is fully validated before any manager state is touched; on
// failure the load-failed event fires and nothing is applied.
func (m *ProjectManager) Open(path string) error {
	scratch, err := os.MkdirTemp(m.scratchRoot, "project_"+projectStem(path)+"_")
	if err != nil {
		err = fmt.Errorf("failed to create project scratch directory: %w", err)
		m.failLoad(path, err)
		return err
	}

	data, err := project.Load(path, scratch)
	if err != nil {
		m.failLoad(path, err)
		return err
	}

	if err := m.video.SetPath(data.VideoPath); err != nil {
		m.failLoad(path, err)
		return err
	}
	m.style.ApplyLoaded(data.Style)
	m.subtitles.SetDocument(data.Document)

	m.mu.Lock()
	m.currentPath = path
	listeners := slices.Clone(m.openedListeners)
	m.mu.Unlock()

	m.log.Infow("Project opened", "path", path)
	notify(m.log, "project_opened", listeners, path)
	return nil
}

// Save writes the project to its current path.
func (m *ProjectManager) Save() error {
	m.mu.Lock()
	path := m.currentPath
	m.mu.Unlock()

	if path == "" {
		err := fmt.Errorf("no project path is set")
		m.failSave(err)
		return err
	}
	return m.saveTo(path)
}

// SaveAs writes the project to a new path, which becomes the current one.
func (m *ProjectManager) SaveAs(path string) error {
	return m.saveTo(path)
}

func (m *ProjectManager) saveTo(path string) error {
	videoPath := m.video.Path()
	if videoPath == "" {
		err := fmt.Errorf("a video must be loaded before saving a project")
		m.failSave(err)
		return err
	}
	if _, err := os.Stat(videoPath); err != nil {
		err = fmt.Errorf("project video is unavailable: %w", err)
		m.failSave(err)
		return err
	}

	if err := project.Save(path, m.subtitles.Document(), m.style.Style(), videoPath); err != nil {
		m.failSave(err)
		return err
	}

	m.mu.Lock()
	m.currentPath = path
	listeners := slices.Clone(m.savedListeners)
	m.mu.Unlock()

	m.log.Infow("Project saved", "path", path)
	notify(m.log, "project_saved", listeners, path)
	return nil
}

// Close clears the tracked project path. Notifies only if a project was
// open.
func (m *ProjectManager) Close() {
	m.mu.Lock()
	if m.currentPath == "" {
		m.mu.Unlock()
		return
	}
	m.log.Infow("Closing project", "path", m.currentPath)
	m.currentPath = ""
	listeners := slices.Clone(m.closedListeners)
	m.mu.Unlock()

	notify(m.log, "project_closed", listeners, struct{}{})
}

func (m *ProjectManager) failLoad(path string, err error) {
	m.log.Errorw("Failed to load project", "path", path, "error", err)
	m.mu.Lock()
	listeners := slices.Clone(m.loadFailedListeners)
	m.mu.Unlock()
	notify(m.log, "project_load_failed", listeners, err)
}

func (m *ProjectManager) failSave(err error) {
	m.log.Errorw("Failed to save project", "error", err)
	m.mu.Lock()
	listeners := slices.Clone(m.saveFailedListeners)
	m.mu.Unlock()
	notify(m.log, "project_save_failed", listeners, err)
}

func projectStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
