// Package ui serves the no-JS HTML pages: the upload form and the results
// viewer. All dynamic behavior lives server-side; collapsible sections are
// plain <details> blocks.
package ui

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"wbsview/internal/api"
	"wbsview/internal/results"
)

var uiTemplates = template.Must(template.New("layout").Parse(`{{define "layout"}}
<!doctype html>
<html lang="ru">
<head>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>
  <title>Анализатор технических заданий</title>
  <style>
    body{font-family:system-ui,-apple-system,Segoe UI,Roboto,Ubuntu,Cantarell,Noto Sans,sans-serif;max-width:880px;margin:32px auto;padding:0 16px;color:#0b0b0b;background:#fafafa}
    header{margin-bottom:24px}
    h1{font-size:22px;margin:0 0 8px}
    a{color:#0b63e5;text-decoration:none}
    a:hover{text-decoration:underline}
    .card{background:#fff;border:1px solid #e9e9e9;border-radius:10px;padding:16px;margin:12px 0}
    .btn{display:inline-block;background:#0b63e5;color:#fff;border:none;padding:10px 14px;border-radius:8px;cursor:pointer}
    .btn.secondary{background:#444}
    .muted{color:#666}
    .mono{font-family:ui-monospace,SFMono-Regular,Menlo,Monaco,Consolas,monospace}
    .error{border-color:#f2b8b5;background:#fff6f6}
    .error strong{color:#b3261e}
    details{margin:8px 0;padding:8px 12px;border:1px solid #e9e9e9;border-radius:8px;background:#fff}
    details details{margin-left:16px}
    summary{cursor:pointer;font-weight:600}
    .hours{display:inline-block;padding:2px 8px;border-radius:6px;background:#efefef;font-size:12px;margin-left:8px}
    footer{margin-top:24px;color:#666;font-size:12px}
  </style>
</head>
<body>
  <header>
    <h1><a href="/">Анализатор технических заданий</a></h1>
    <div class="muted">Загрузите документ — получите структуру работ (WBS)</div>
  </header>
  {{template "content" .}}
  <footer>
    <div>API: <span class="mono">POST /upload · GET /api/results/{id}</span></div>
  </footer>
</body>
</html>
{{end}}

{{define "home"}}
  {{template "layout" .}}
{{end}}

{{define "content"}}
  {{if .Error}}
  <div class="card error"><strong>Ошибка:</strong> <span class="muted">{{.Error}}</span></div>
  {{end}}
  <div class="card">
    <h2>Загрузка документа</h2>
    <form method="post" action="/ui/upload" enctype="multipart/form-data">
      <p><input type="file" name="file" accept=".doc,.docx,.pdf" required/></p>
      <button class="btn" type="submit">Анализировать</button>
    </form>
    <div class="muted">Допустимые форматы: .doc, .docx, .pdf · максимум 16 МБ</div>
  </div>
{{end}}

{{define "results_layout"}}
<!doctype html>
<html lang="ru">
<head>
  <meta charset="utf-8"/>
  <meta name="viewport" content="width=device-width, initial-scale=1"/>
  <title>Результаты анализа · {{.Record.Filename}}</title>
  <style>
    body{font-family:system-ui,-apple-system,Segoe UI,Roboto,Ubuntu,Cantarell,Noto Sans,sans-serif;max-width:880px;margin:32px auto;padding:0 16px;color:#0b0b0b;background:#fafafa}
    header{margin-bottom:24px}
    h1{font-size:22px;margin:0 0 8px}
    a{color:#0b63e5;text-decoration:none}
    a:hover{text-decoration:underline}
    .card{background:#fff;border:1px solid #e9e9e9;border-radius:10px;padding:16px;margin:12px 0}
    .btn{display:inline-block;background:#0b63e5;color:#fff;border:none;padding:10px 14px;border-radius:8px;cursor:pointer}
    .muted{color:#666}
    .mono{font-family:ui-monospace,SFMono-Regular,Menlo,Monaco,Consolas,monospace}
    details{margin:8px 0;padding:8px 12px;border:1px solid #e9e9e9;border-radius:8px;background:#fff}
    details details{margin-left:16px}
    summary{cursor:pointer;font-weight:600}
    .hours{display:inline-block;padding:2px 8px;border-radius:6px;background:#efefef;font-size:12px;margin-left:8px}
    footer{margin-top:24px;color:#666;font-size:12px}
  </style>
</head>
<body>
  <header>
    <h1><a href="/">Анализатор технических заданий</a></h1>
    <div class="muted">Файл: <span class="mono">{{.Record.Filename}}</span></div>
  </header>
  {{template "content-results" .}}
  <footer>
    <div>Результат: <span class="mono">{{.Record.ID}}</span></div>
  </footer>
</body>
</html>
{{end}}

{{define "results"}}
  {{template "results_layout" .}}
{{end}}

{{define "content-results"}}
  {{with .Record.Result}}
  <div class="card">
    <h2>{{.ProjectInfo.ProjectName}}</h2>
    <p>{{.ProjectInfo.Description}}</p>
    <div class="muted">Длительность: {{.ProjectInfo.EstimatedDuration}} · Сложность: {{.ProjectInfo.ComplexityLevel}} · Всего часов: {{.ProjectInfo.TotalEstimatedHours}}</div>
  </div>

  <div class="card">
    <h3>Структура работ</h3>
    {{range .WBS.Phases}}
    <details open>
      <summary>{{.ID}}. {{.Name}}<span class="hours">{{.EstimatedHours}} ч</span></summary>
      <p class="muted">{{.Description}}</p>
      {{range .WorkPackages}}
      <details open>
        <summary>{{.ID}} {{.Name}}<span class="hours">{{.EstimatedHours}} ч</span></summary>
        <p class="muted">{{.Description}}</p>
        {{if .Tasks}}
        <ul>
        {{range .Tasks}}
          <li>{{.ID}} {{.Name}}<span class="hours">{{.EstimatedHours}} ч</span></li>
        {{end}}
        </ul>
        {{end}}
      </details>
      {{end}}
    </details>
    {{end}}
  </div>

  {{if .Risks}}
  <div class="card">
    <h3>Риски</h3>
    <ul>
    {{range .Risks}}
      <li>{{.Description}} <span class="muted">(вероятность: {{.Probability}}, влияние: {{.Impact}})</span></li>
    {{end}}
    </ul>
  </div>
  {{end}}
  {{end}}

  <div class="card">
    <a class="btn" href="/results/{{.Record.ID}}/export">Скачать JSON</a>
    <a class="btn secondary" href="/api/results/{{.Record.ID}}" style="margin-left:8px">Открыть в API</a>
  </div>
{{end}}
`))

type UI struct {
	api *api.API
}

func NewUI(apiHandler *api.API) *UI {
	return &UI{api: apiHandler}
}

func (u *UI) RegisterRoutes(router *gin.Engine) {
	router.SetHTMLTemplate(uiTemplates)
	router.GET("/", u.Home)
	router.POST("/ui/upload", u.UploadForm)
	router.GET("/results/:id", u.Results)
	router.GET("/results/:id/export", u.Export)
}

// Home renders the upload page.
func (u *UI) Home(c *gin.Context) { c.HTML(http.StatusOK, "home", gin.H{}) }

// UploadForm handles the no-JS form submit: same pipeline as the JSON
// endpoint, but failures re-render the form and success redirects.
func (u *UI) UploadForm(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.HTML(http.StatusBadRequest, "home", gin.H{"Error": "No file provided"})
		return
	}
	record, status, err := u.api.ProcessUpload(c.Request.Context(), fileHeader)
	if err != nil {
		c.HTML(status, "home", gin.H{"Error": err.Error()})
		return
	}
	c.Redirect(http.StatusFound, "/results/"+record.ID)
}

// Results renders a stored analysis as collapsible phase and work-package
// sections.
func (u *UI) Results(c *gin.Context) {
	id := c.Param("id")
	record, ok := u.api.Record(id)
	if !ok {
		c.HTML(http.StatusNotFound, "home", gin.H{"Error": "Result not found"})
		return
	}
	c.HTML(http.StatusOK, "results", gin.H{"Record": record})
}

// Export serves the analysis as a JSON attachment with the fixed filename.
func (u *UI) Export(c *gin.Context) {
	id := c.Param("id")
	record, ok := u.api.Record(id)
	if !ok || record.Result == nil {
		c.HTML(http.StatusNotFound, "home", gin.H{"Error": "Result not found"})
		return
	}
	data, err := results.MarshalIndent(record.Result)
	if err != nil {
		log.Error().Str("result_id", id).Err(err).Msg("export serialization failed")
		c.HTML(http.StatusInternalServerError, "home", gin.H{"Error": "Internal server error"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+results.ExportFilename+`"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", data)
}
