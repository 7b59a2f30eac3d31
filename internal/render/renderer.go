package render

type Renderer interface {
	Init() error
	Deinit() error
	Size() (columns, rows int, err error)
	Fill(row, column int, message string)
	Flush() error
}
