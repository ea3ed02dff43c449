package archive

import (
	"context"
	"net/http"
	"regexp"
	"strconv"
	"strings"
)

// Relation methods understood by the article endpoint.
const (
	MethodLink   = "LINK"
	MethodUnlink = "UNLINK"
)

// Link associates the images with the article in a single request.
func (c *Client) Link(ctx context.Context, art Article, ids ...int) error {
	return c.relate(ctx, MethodLink, art, ids)
}

// Unlink removes the association between the images and the article.
func (c *Client) Unlink(ctx context.Context, art Article, ids ...int) error {
	return c.relate(ctx, MethodUnlink, art, ids)
}

// LinkHeader renders the Link header value referencing every image.
func (c *Client) LinkHeader(ids []int) string {
	refs := make([]string, len(ids))
	for i, id := range ids {
		refs[i] = "<" + c.ImageURI(id) + ">"
	}
	return strings.Join(refs, ", ")
}

func (c *Client) relate(ctx context.Context, method string, art Article, ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	url := c.url("articles", strconv.Itoa(art.Number), art.Language)
	link := c.LinkHeader(ids)

	// Logged in full so the request can be replayed by hand.
	c.log.Debug("sending relation request", "method", method, "url", url, "link", link)

	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Link", link)

	op := strings.ToLower(method) + " " + art.String()
	resp, err := c.do(req)
	if err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp); err != nil {
		return &NetworkError{Op: op, Err: err}
	}
	return nil
}

var imageRefRe = regexp.MustCompile(`<[^>]*/images/(\d+)/?>`)

// IDsFromLinkHeader extracts the image ids referenced by a Link header.
func IDsFromLinkHeader(h string) []int {
	var ids []int
	for _, m := range imageRefRe.FindAllStringSubmatch(h, -1) {
		if id, err := strconv.Atoi(m[1]); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
