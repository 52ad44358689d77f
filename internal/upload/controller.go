package upload

import (
	"context"
	"io"
	"strings"
)

// MaxFileSize is the inclusive size cap for a selection: a file of exactly
// this size is accepted, one byte more is rejected.
const MaxFileSize int64 = 16 * 1024 * 1024

// DefaultAllowedExtensions lists the accepted file types, without the dot.
var DefaultAllowedExtensions = []string{"doc", "docx", "pdf"}

// SelectedFile is the single file a user picked for upload. Open is called
// once per submit to obtain the byte stream.
type SelectedFile struct {
	Name string
	Size int64
	Open func() (io.ReadCloser, error)
}

// View is the presentation surface the controller drives. Implementations
// only mutate what they show; all decisions stay in the controller.
type View interface {
	ShowError(msg string)
	ClearError()
	// ShowFileInfo reveals the selected-file panel with the given name and
	// hides the drop target.
	ShowFileInfo(name string)
	// ShowDropZone restores the empty-state drop target and hides the
	// selected-file panel.
	ShowDropZone()
	SetSubmitEnabled(enabled bool)
	SetLoading(loading bool)
	Navigate(url string)
}

// Submitter sends the selected file to the upload endpoint. *Client is the
// production implementation.
type Submitter interface {
	Upload(ctx context.Context, filename string, data io.Reader) (*Response, error)
}

// Options tune a controller; zero values fall back to the defaults above.
type Options struct {
	AllowedExtensions []string
	MaxFileSize       int64
}

// Controller owns the selection state for one upload page and exposes the
// user-initiated operations as methods. One instance per page.
type Controller struct {
	view      View
	submitter Submitter
	allowed   map[string]struct{}
	maxSize   int64
	selected  *SelectedFile
}

// NewController creates a controller with the default extension allow-list
// and size cap.
func NewController(view View, submitter Submitter) *Controller {
	return NewControllerWithOptions(view, submitter, Options{})
}

func NewControllerWithOptions(view View, submitter Submitter, opts Options) *Controller {
	extensions := opts.AllowedExtensions
	if len(extensions) == 0 {
		extensions = DefaultAllowedExtensions
	}
	allowed := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		allowed[strings.ToLower(strings.TrimPrefix(ext, "."))] = struct{}{}
	}
	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	return &Controller{
		view:      view,
		submitter: submitter,
		allowed:   allowed,
		maxSize:   maxSize,
	}
}

// Selected returns the current selection, if any.
func (c *Controller) Selected() (SelectedFile, bool) {
	if c.selected == nil {
		return SelectedFile{}, false
	}
	return *c.selected, true
}

// Select validates a dropped or picked file. A valid file replaces any
// previous selection and enables submission; an invalid one clears the
// selection, restores the drop target and shows the reason. Reports whether
// the file was accepted.
func (c *Controller) Select(f SelectedFile) bool {
	if _, ok := c.allowed[extension(f.Name)]; !ok {
		c.reject(MsgInvalidType)
		return false
	}
	if f.Size > c.maxSize {
		c.reject(MsgFileTooLarge)
		return false
	}
	selected := f
	c.selected = &selected
	c.view.ClearError()
	c.view.ShowFileInfo(f.Name)
	c.view.SetSubmitEnabled(true)
	return true
}

// Remove clears the current selection and restores the empty state.
func (c *Controller) Remove() {
	c.selected = nil
	c.view.ClearError()
	c.view.ShowDropZone()
	c.view.SetSubmitEnabled(false)
}

// Submit sends the current selection to the upload endpoint. Exactly one
// request is made per call; there are no retries. Every failure path leaves
// the page interactive with the selection intact, a success navigates away.
func (c *Controller) Submit(ctx context.Context) {
	if c.selected == nil {
		c.view.ShowError(MsgNoFileSelected)
		return
	}

	c.view.ClearError()
	c.view.SetSubmitEnabled(false)
	c.view.SetLoading(true)

	data, err := c.selected.Open()
	if err != nil {
		c.fail(MsgNetworkErrorPrefix + err.Error())
		return
	}
	resp, err := c.submitter.Upload(ctx, c.selected.Name, data)
	_ = data.Close()
	if err != nil {
		c.fail(MsgNetworkErrorPrefix + err.Error())
		return
	}
	if !resp.Success {
		msg := resp.Error
		if msg == "" {
			msg = MsgUploadFailed
		}
		c.fail(msg)
		return
	}
	c.view.SetLoading(false)
	c.view.Navigate(resp.RedirectURL)
}

// reject drops an invalid selection: back to the empty state with the error
// shown and submission disabled.
func (c *Controller) reject(msg string) {
	c.selected = nil
	c.view.ShowDropZone()
	c.view.SetSubmitEnabled(false)
	c.view.ShowError(msg)
}

// fail exits the loading state after a submit error; the file stays selected
// so the user can retry.
func (c *Controller) fail(msg string) {
	c.view.SetLoading(false)
	c.view.SetSubmitEnabled(true)
	c.view.ShowError(msg)
}

// extension returns the lower-cased suffix after the last dot, or "" when
// the name has no dot.
func extension(name string) string {
	idx := strings.LastIndex(name, ".")
	if idx < 0 {
		return ""
	}
	return strings.ToLower(name[idx+1:])
}
