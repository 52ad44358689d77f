package upload

// User-facing messages shown by the controller. The exact wording is part of
// the user contract; tests assert it verbatim.
const (
	MsgInvalidType    = "Недопустимый тип файла. Разрешены только файлы .doc, .docx и .pdf"
	MsgFileTooLarge   = "Файл слишком большой. Максимальный размер: 16 МБ"
	MsgNoFileSelected = "Пожалуйста, выберите файл"
	MsgUploadFailed   = "Произошла ошибка при загрузке файла"

	// MsgNetworkErrorPrefix is followed by the underlying transport error text.
	MsgNetworkErrorPrefix = "Ошибка сети: "
)
