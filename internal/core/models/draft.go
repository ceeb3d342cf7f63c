package models

// ImageSource говорит, откуда берётся картинка объявления: готовый URL или
// локальный файл, который сперва обменивается на URL через /api/upload.
type ImageSource int

const (
	ImageNone ImageSource = iota
	ImageURL
	ImageFile
)

// SellDraft is the transient form state of a not-yet-submitted listing.
// On a successful submit it is reset to the zero value; on rejection it is
// kept as-is so the user can correct and resubmit.
type SellDraft struct {
	ProductName   string
	Category      string
	Price         float64
	ImageSource   ImageSource
	ImageURL      string // set when ImageSource == ImageURL
	ImagePath     string // set when ImageSource == ImageFile
	Description   string
	ContactNumber string
}

// Empty reports whether the draft has been reset.
func (d SellDraft) Empty() bool {
	return d == SellDraft{}
}
