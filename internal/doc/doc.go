package doc

// SourceBlock is one imported raw document prior to structural binding.
// Blocks are produced once at import and never mutated afterwards.
type SourceBlock struct {
	SourceFilename string // name of the imported markdown file
	ExtractedTitle string // first level-1 heading, empty if none
	RawText        string
}

// ChapterDraft is a generated chapter: full markdown plus the section titles
// pulled back out of it for navigation.
type ChapterDraft struct {
	Title    string
	Filename string // file stem, no extension
	Content  string
	Sections []string
}
