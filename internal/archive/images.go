package archive

import (
	"context"
	"fmt"
	"strconv"

	"github.com/blackwell-systems/mediadesk/internal/media"
)

// Article identifies the article images are linked to.
type Article struct {
	Number   int    `json:"number" yaml:"number"`
	Language string `json:"language" yaml:"language"`
}

func (a Article) String() string {
	return fmt.Sprintf("%d/%s", a.Number, a.Language)
}

// Pagination is the paging block of a listing response.
type Pagination struct {
	ItemsPerPage int `json:"itemsPerPage"`
	CurrentPage  int `json:"currentPage,omitempty"`
	NbPages      int `json:"nbPages,omitempty"`
}

// Page is one page of archive images.
type Page struct {
	Items      []media.Image `json:"items"`
	Pagination Pagination    `json:"pagination"`
}

// FetchPage returns one page of the archive listing.
func (c *Client) FetchPage(ctx context.Context, page, perPage int) (*Page, error) {
	url := fmt.Sprintf("%s?items_per_page=%d&page=%d&expand=true", c.url("images"), perPage, page)
	var p Page
	if err := c.getJSON(ctx, fmt.Sprintf("fetch page %d", page), url, &p); err != nil {
		return nil, err
	}
	if p.Items == nil {
		p.Items = []media.Image{}
	}
	return &p, nil
}

// FetchImage returns the full record of one archive image.
func (c *Client) FetchImage(ctx context.Context, id int) (*media.Image, error) {
	var img media.Image
	if err := c.getJSON(ctx, fmt.Sprintf("fetch image %d", id), c.url("images", strconv.Itoa(id)), &img); err != nil {
		return nil, err
	}
	if img.ID == 0 {
		img.ID = id
	}
	return &img, nil
}

// FetchAttached returns the images currently linked to the article.
func (c *Client) FetchAttached(ctx context.Context, art Article) ([]media.Image, error) {
	url := c.url("articles", strconv.Itoa(art.Number), art.Language, "images") + "?expand=true"
	var body struct {
		Items []media.Image `json:"items"`
	}
	if err := c.getJSON(ctx, "fetch attached images of "+art.String(), url, &body); err != nil {
		return nil, err
	}
	if body.Items == nil {
		return []media.Image{}, nil
	}
	return body.Items, nil
}
