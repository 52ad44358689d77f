package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"wbsview/internal/analysis"
	"wbsview/internal/results"
	"wbsview/internal/upload"
)

var serverURL string

func main() {
	rootCmd := &cobra.Command{
		Use:   "wbsctl",
		Short: "wbsctl - terminal front-end for the WBS analyzer service",
		Long: `wbsctl uploads specification documents to a running analyzer service,
shows stored analysis results and exports them as JSON.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "http://localhost:8000", "Analyzer service base URL")

	uploadCmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document for analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  runUpload,
	}
	rootCmd.AddCommand(uploadCmd)

	fetchCmd := &cobra.Command{
		Use:   "fetch <result-id>",
		Short: "Show a stored analysis result",
		Args:  cobra.ExactArgs(1),
		RunE:  runFetch,
	}
	rootCmd.AddCommand(fetchCmd)

	exportCmd := &cobra.Command{
		Use:   "export <result-id>",
		Short: "Save a stored analysis result as " + results.ExportFilename,
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
	exportCmd.Flags().StringP("output", "o", ".", "Directory to write the exported file to")
	rootCmd.AddCommand(exportCmd)

	if err := rootCmd.Execute(); err != nil {
		printError("Ошибка: %v", err)
		os.Exit(1)
	}
}

func runUpload(cmd *cobra.Command, args []string) error {
	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat file: %w", err)
	}

	view := newTerminalView()
	controller := upload.NewController(view, upload.NewClient(serverURL))

	accepted := controller.Select(upload.SelectedFile{
		Name: filepath.Base(path),
		Size: info.Size(),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path) //nolint:gosec // user-supplied path is the point of the command
		},
	})
	if !accepted {
		return errors.New("файл отклонён")
	}

	controller.Submit(cmd.Context())
	if view.redirectURL == "" {
		return errors.New("загрузка не удалась")
	}
	printSuccess("Результат доступен: %s%s", serverURL, view.redirectURL)
	return nil
}

func runFetch(cmd *cobra.Command, args []string) error {
	record, err := fetchRecord(args[0])
	if err != nil {
		return err
	}

	printTitle("%s", record.Filename)
	if record.Result == nil {
		printWarning("Результат пуст")
		return nil
	}
	info := record.Result.ProjectInfo
	fmt.Printf("%s — %s, %d ч\n\n", info.ProjectName, info.EstimatedDuration, info.TotalEstimatedHours)

	controller := results.NewController(record.Result, stderrAlerter{}, nil)
	printOutline(controller.Sections(), record.Result)
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	record, err := fetchRecord(args[0])
	if err != nil {
		return err
	}
	outputDir, err := cmd.Flags().GetString("output")
	if err != nil {
		return fmt.Errorf("read output flag: %w", err)
	}

	controller := results.NewController(record.Result, stderrAlerter{}, dirSaver{dir: outputDir})
	var payload any
	if record.Result != nil {
		payload = record.Result
	}
	if err := controller.Export(payload); err != nil {
		return fmt.Errorf("export: %w", err)
	}
	if payload == nil {
		// the controller already alerted about the missing data
		return errors.New("экспорт не выполнен")
	}
	printSuccess("Сохранено: %s", filepath.Join(outputDir, results.ExportFilename))
	return nil
}

// fetchRecord loads a stored record from the service's JSON API.
func fetchRecord(id string) (*analysis.Record, error) {
	res, err := http.Get(serverURL + "/api/results/" + id) //nolint:noctx // one-shot CLI request
	if err != nil {
		return nil, fmt.Errorf("request result: %w", err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("результат %s не найден", id)
	}
	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("service returned status %d", res.StatusCode)
	}
	var record analysis.Record
	if err := json.NewDecoder(res.Body).Decode(&record); err != nil {
		return nil, fmt.Errorf("decode result: %w", err)
	}
	return &record, nil
}

// printOutline renders the controller's section tree; collapsed sections
// show only their header.
func printOutline(sections []*results.Section, result *analysis.Result) {
	hours := hoursIndex(result)
	for _, phase := range sections {
		printPhase("%s. %s (%d ч)", phase.ID, phase.Title, hours[phase.ID])
		if phase.Collapsed {
			continue
		}
		for _, wp := range phase.Children {
			fmt.Printf("    %s %s (%d ч)\n", wp.ID, wp.Title, hours[wp.ID])
		}
	}
}

func hoursIndex(result *analysis.Result) map[string]int {
	index := make(map[string]int)
	for _, phase := range result.WBS.Phases {
		index[phase.ID] = phase.EstimatedHours
		for _, wp := range phase.WorkPackages {
			index[wp.ID] = wp.EstimatedHours
		}
	}
	return index
}

// dirSaver writes exports into a directory on the local filesystem.
type dirSaver struct {
	dir string
}

func (s dirSaver) Create(name string) (io.WriteCloser, error) {
	f, err := os.Create(filepath.Join(s.dir, name)) //nolint:gosec // user-chosen output dir
	if err != nil {
		return nil, fmt.Errorf("create file: %w", err)
	}
	return f, nil
}

// stderrAlerter prints blocking messages to stderr.
type stderrAlerter struct{}

func (stderrAlerter) Alert(msg string) { printError("%s", msg) }
