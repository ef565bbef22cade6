package entities

import "time"

// Book is the only resource managed by the service. ISBN is the primary key
// and never changes once the row exists.
type Book struct {
	ISBN      string    `gorm:"primaryKey;size:32" json:"isbn" mapstructure:"isbn"`
	AmazonURL string    `gorm:"not null;size:2048" json:"amazon_url" mapstructure:"amazon_url"`
	Author    string    `gorm:"not null;index;size:256" json:"author" mapstructure:"author"`
	Language  string    `gorm:"not null;size:64" json:"language" mapstructure:"language"`
	Pages     int       `gorm:"not null" json:"pages" mapstructure:"pages"`
	Publisher string    `gorm:"not null;size:256" json:"publisher" mapstructure:"publisher"`
	Title     string    `gorm:"not null;index;size:512" json:"title" mapstructure:"title"`
	Year      int       `gorm:"not null" json:"year" mapstructure:"year"`
	CreatedAt time.Time `json:"created_at" mapstructure:"-"`
	UpdatedAt time.Time `json:"updated_at" mapstructure:"-"`
}

func (Book) TableName() string {
	return "books"
}

// BookPatch is a sparse update. Nil fields were not supplied by the caller.
// ISBN is absent; the key comes from the URL.
type BookPatch struct {
	AmazonURL *string `mapstructure:"amazon_url"`
	Author    *string `mapstructure:"author"`
	Language  *string `mapstructure:"language"`
	Pages     *int    `mapstructure:"pages"`
	Publisher *string `mapstructure:"publisher"`
	Title     *string `mapstructure:"title"`
	Year      *int    `mapstructure:"year"`
}

// Apply returns a copy of book with every supplied field overwritten.
func (p BookPatch) Apply(book Book) Book {
	if p.AmazonURL != nil {
		book.AmazonURL = *p.AmazonURL
	}
	if p.Author != nil {
		book.Author = *p.Author
	}
	if p.Language != nil {
		book.Language = *p.Language
	}
	if p.Pages != nil {
		book.Pages = *p.Pages
	}
	if p.Publisher != nil {
		book.Publisher = *p.Publisher
	}
	if p.Title != nil {
		book.Title = *p.Title
	}
	if p.Year != nil {
		book.Year = *p.Year
	}
	return book
}

// Fields lists the column names the patch touches, in declaration order.
func (p BookPatch) Fields() []string {
	var fields []string
	if p.AmazonURL != nil {
		fields = append(fields, "amazon_url")
	}
	if p.Author != nil {
		fields = append(fields, "author")
	}
	if p.Language != nil {
		fields = append(fields, "language")
	}
	if p.Pages != nil {
		fields = append(fields, "pages")
	}
	if p.Publisher != nil {
		fields = append(fields, "publisher")
	}
	if p.Title != nil {
		fields = append(fields, "title")
	}
	if p.Year != nil {
		fields = append(fields, "year")
	}
	return fields
}

// IsEmpty reports whether the patch supplies no fields at all.
func (p BookPatch) IsEmpty() bool {
	return len(p.Fields()) == 0
}
