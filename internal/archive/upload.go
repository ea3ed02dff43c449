package archive

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"
	"strings"
)

// Multipart field names of the image create form.
const (
	FieldPhotographer = "image[photographer]"
	FieldDescription  = "image[description]"
	FieldImage        = "image[image]"
)

// ProgressFunc receives the number of body bytes sent so far and the total.
type ProgressFunc func(sent, total int64)

// UploadForm is the payload of an image create request.
type UploadForm struct {
	Photographer string
	Description  string
	Filename     string
	ContentType  string
	Data         []byte
}

// CreateImage uploads a new image to the archive and returns its id,
// parsed from the Location header of the response. progress may be nil.
func (c *Client) CreateImage(ctx context.Context, form UploadForm, progress ProgressFunc) (int, error) {
	body, contentType, err := encodeForm(form)
	if err != nil {
		return 0, fmt.Errorf("encoding upload form: %w", err)
	}
	total := int64(len(body))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url("images"),
		NewProgressReader(bytes.NewReader(body), total, progress))
	if err != nil {
		return 0, err
	}
	req.ContentLength = total
	req.Header.Set("Content-Type", contentType)

	op := fmt.Sprintf("upload %q", form.Filename)
	resp, err := c.do(req)
	if err != nil {
		return 0, &NetworkError{Op: op, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()
	if err := checkStatus(resp); err != nil {
		return 0, &NetworkError{Op: op, Err: err}
	}

	id, err := IDFromLocation(resp.Header.Get("Location"))
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return id, nil
}

// IDFromLocation parses the numeric id from the trailing path segment of a
// resource location such as ".../images/42".
func IDFromLocation(loc string) (int, error) {
	loc = strings.TrimRight(strings.TrimSpace(loc), "/")
	if loc == "" {
		return 0, fmt.Errorf("%w: missing location of created image", ErrContractViolation)
	}
	seg := loc[strings.LastIndex(loc, "/")+1:]
	id, err := strconv.Atoi(seg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: location %q does not end in an image id", ErrContractViolation, loc)
	}
	return id, nil
}

func encodeForm(form UploadForm) ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	if err := w.WriteField(FieldPhotographer, form.Photographer); err != nil {
		return nil, "", err
	}
	if err := w.WriteField(FieldDescription, form.Description); err != nil {
		return nil, "", err
	}

	contentType := form.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`,
		escapeQuotes(FieldImage), escapeQuotes(form.Filename)))
	h.Set("Content-Type", contentType)
	part, err := w.CreatePart(h)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(form.Data); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf.Bytes(), w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string { return quoteEscaper.Replace(s) }

// ProgressReader wraps an io.Reader and reports the running byte count.
type ProgressReader struct {
	r     io.Reader
	total int64
	sent  int64
	fn    ProgressFunc
}

// NewProgressReader creates a reader that calls fn after every read that
// returned data. fn may be nil.
func NewProgressReader(r io.Reader, total int64, fn ProgressFunc) *ProgressReader {
	return &ProgressReader{r: r, total: total, fn: fn}
}

func (pr *ProgressReader) Read(p []byte) (int, error) {
	n, err := pr.r.Read(p)
	if n > 0 {
		pr.sent += int64(n)
		if pr.fn != nil {
			pr.fn(pr.sent, pr.total)
		}
	}
	return n, err
}

// Sent returns the bytes read so far.
func (pr *ProgressReader) Sent() int64 { return pr.sent }
