package upload

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeView records the visibility state the controller drives.
type fakeView struct {
	errorMsg        string
	fileName        string
	fileInfoVisible bool
	dropZoneVisible bool
	submitEnabled   bool
	loading         bool
	navigatedTo     string
}

func newFakeView() *fakeView {
	return &fakeView{dropZoneVisible: true}
}

func (v *fakeView) ShowError(msg string) { v.errorMsg = msg }
func (v *fakeView) ClearError()          { v.errorMsg = "" }
func (v *fakeView) ShowFileInfo(name string) {
	v.fileName = name
	v.fileInfoVisible = true
	v.dropZoneVisible = false
}
func (v *fakeView) ShowDropZone() {
	v.fileName = ""
	v.fileInfoVisible = false
	v.dropZoneVisible = true
}
func (v *fakeView) SetSubmitEnabled(enabled bool) { v.submitEnabled = enabled }
func (v *fakeView) SetLoading(loading bool)       { v.loading = loading }
func (v *fakeView) Navigate(url string)           { v.navigatedTo = url }

type fakeSubmitter struct {
	calls int
	resp  *Response
	err   error
}

func (f *fakeSubmitter) Upload(_ context.Context, _ string, _ io.Reader) (*Response, error) {
	f.calls++
	return f.resp, f.err
}

func textFile(name string, size int64) SelectedFile {
	return SelectedFile{
		Name: name,
		Size: size,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(strings.NewReader("content")), nil
		},
	}
}

func TestSelectRejectsDisallowedExtension(t *testing.T) {
	for _, name := range []string{"report.exe", "report.txt", "report", "report.pdf.zip"} {
		view := newFakeView()
		controller := NewController(view, &fakeSubmitter{})

		accepted := controller.Select(textFile(name, 100))

		require.False(t, accepted, "file %q must be rejected", name)
		require.Equal(t, MsgInvalidType, view.errorMsg)
		require.False(t, view.submitEnabled)
		require.True(t, view.dropZoneVisible)
		_, hasSelection := controller.Selected()
		require.False(t, hasSelection)
	}
}

func TestSelectAcceptsAllowListCaseInsensitive(t *testing.T) {
	for _, name := range []string{"a.doc", "a.docx", "a.pdf", "a.PDF", "a.DocX"} {
		view := newFakeView()
		controller := NewController(view, &fakeSubmitter{})

		require.True(t, controller.Select(textFile(name, 100)), "file %q must be accepted", name)
		require.Equal(t, name, view.fileName)
		require.True(t, view.submitEnabled)
		require.True(t, view.fileInfoVisible)
		require.False(t, view.dropZoneVisible)
		require.Empty(t, view.errorMsg)
	}
}

func TestSelectHonorsCustomOptions(t *testing.T) {
	view := newFakeView()
	controller := NewControllerWithOptions(view, &fakeSubmitter{}, Options{
		AllowedExtensions: []string{".txt"},
		MaxFileSize:       1024,
	})

	require.True(t, controller.Select(textFile("notes.TXT", 1024)))
	require.False(t, controller.Select(textFile("a.pdf", 100)), "defaults no longer apply")
	require.False(t, controller.Select(textFile("big.txt", 1025)))
}

func TestSelectSizeBoundary(t *testing.T) {
	view := newFakeView()
	controller := NewController(view, &fakeSubmitter{})

	require.True(t, controller.Select(textFile("a.pdf", MaxFileSize)), "exactly 16 MiB is accepted")

	require.False(t, controller.Select(textFile("a.pdf", MaxFileSize+1)), "one byte over is rejected")
	require.Equal(t, MsgFileTooLarge, view.errorMsg)
	require.False(t, view.submitEnabled)
	require.True(t, view.dropZoneVisible)
}

func TestOversizedDropRestoresEmptyState(t *testing.T) {
	view := newFakeView()
	controller := NewController(view, &fakeSubmitter{})

	// 20 MB drop
	require.False(t, controller.Select(textFile("big.pdf", 20*1024*1024)))
	require.Equal(t, MsgFileTooLarge, view.errorMsg)
	require.True(t, view.dropZoneVisible)
	require.False(t, view.submitEnabled)
}

func TestInvalidSelectionClearsPreviousSelection(t *testing.T) {
	view := newFakeView()
	controller := NewController(view, &fakeSubmitter{})

	require.True(t, controller.Select(textFile("a.docx", 100)))
	require.False(t, controller.Select(textFile("b.exe", 100)))

	_, hasSelection := controller.Selected()
	require.False(t, hasSelection)
	require.False(t, view.submitEnabled)
}

func TestValidSelectionReplacesPrevious(t *testing.T) {
	view := newFakeView()
	controller := NewController(view, &fakeSubmitter{})

	require.True(t, controller.Select(textFile("a.docx", 100)))
	require.True(t, controller.Select(textFile("b.pdf", 200)))

	selected, hasSelection := controller.Selected()
	require.True(t, hasSelection)
	require.Equal(t, "b.pdf", selected.Name)
	require.Equal(t, "b.pdf", view.fileName)
}

func TestRemoveRestoresEmptyState(t *testing.T) {
	view := newFakeView()
	controller := NewController(view, &fakeSubmitter{})

	require.True(t, controller.Select(textFile("a.pdf", 100)))
	controller.Remove()

	_, hasSelection := controller.Selected()
	require.False(t, hasSelection)
	require.True(t, view.dropZoneVisible)
	require.False(t, view.fileInfoVisible)
	require.False(t, view.submitEnabled)
	require.Empty(t, view.errorMsg)
}

func TestSubmitWithoutFileMakesNoRequest(t *testing.T) {
	view := newFakeView()
	submitter := &fakeSubmitter{}
	controller := NewController(view, submitter)

	controller.Submit(context.Background())

	require.Equal(t, 0, submitter.calls)
	require.Equal(t, MsgNoFileSelected, view.errorMsg)
	require.False(t, view.loading)
}

func TestSubmitSuccessNavigates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":true,"redirect_url":"/results/42"}`))
	}))
	defer server.Close()

	view := newFakeView()
	controller := NewController(view, NewClient(server.URL))
	require.True(t, controller.Select(textFile("a.docx", 1024*1024)))

	controller.Submit(context.Background())

	require.Equal(t, "/results/42", view.navigatedTo)
	require.False(t, view.loading)
	require.Empty(t, view.errorMsg)
}

func TestSubmitServerErrorKeepsSelection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":false,"error":"X"}`))
	}))
	defer server.Close()

	view := newFakeView()
	controller := NewController(view, NewClient(server.URL))
	require.True(t, controller.Select(textFile("a.docx", 1024*1024)))

	controller.Submit(context.Background())

	require.Equal(t, "X", view.errorMsg)
	require.False(t, view.loading)
	require.True(t, view.submitEnabled)
	selected, hasSelection := controller.Selected()
	require.True(t, hasSelection)
	require.Equal(t, "a.docx", selected.Name)
	require.Empty(t, view.navigatedTo)
}

func TestSubmitNonSuccessStatusIsFailure(t *testing.T) {
	// the body claims success; the status decides
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"success":true,"redirect_url":"/results/42"}`))
	}))
	defer server.Close()

	view := newFakeView()
	controller := NewController(view, NewClient(server.URL))
	require.True(t, controller.Select(textFile("a.pdf", 100)))

	controller.Submit(context.Background())

	require.Empty(t, view.navigatedTo)
	require.Equal(t, MsgUploadFailed, view.errorMsg)
}

func TestSubmitNonSuccessStatusUsesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"boom"}`))
	}))
	defer server.Close()

	view := newFakeView()
	controller := NewController(view, NewClient(server.URL))
	require.True(t, controller.Select(textFile("a.pdf", 100)))

	controller.Submit(context.Background())

	require.Equal(t, "boom", view.errorMsg)
}

func TestSubmitMalformedBodyFallsBack(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	view := newFakeView()
	controller := NewController(view, NewClient(server.URL))
	require.True(t, controller.Select(textFile("a.pdf", 100)))

	controller.Submit(context.Background())

	require.Equal(t, MsgUploadFailed, view.errorMsg)
	require.True(t, view.submitEnabled)
}

func TestSubmitTransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // nothing is listening anymore

	view := newFakeView()
	controller := NewController(view, NewClient(server.URL))
	require.True(t, controller.Select(textFile("a.pdf", 100)))

	controller.Submit(context.Background())

	require.True(t, strings.HasPrefix(view.errorMsg, MsgNetworkErrorPrefix))
	require.Greater(t, len(view.errorMsg), len(MsgNetworkErrorPrefix), "underlying error text is appended")
	require.False(t, view.loading)
	require.True(t, view.submitEnabled)
}

func TestSubmitDisablesControlWhileInFlight(t *testing.T) {
	var loadingDuringRequest, enabledDuringRequest bool
	view := newFakeView()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		loadingDuringRequest = view.loading
		enabledDuringRequest = view.submitEnabled
		_, _ = w.Write([]byte(`{"success":true,"redirect_url":"/done"}`))
	}))
	defer server.Close()

	controller := NewController(view, NewClient(server.URL))
	require.True(t, controller.Select(textFile("a.pdf", 100)))

	controller.Submit(context.Background())

	require.True(t, loadingDuringRequest)
	require.False(t, enabledDuringRequest)
}
