package app

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/blackwell-systems/mediadesk/internal/media"
	"github.com/blackwell-systems/mediadesk/internal/session"
	"github.com/blackwell-systems/mediadesk/internal/util"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"gopkg.in/yaml.v3"
)

// checkFormat validates a --format value. Empty means table.
func checkFormat(format string) error {
	switch format {
	case "", "table", "json", "yaml":
		return nil
	default:
		return fmt.Errorf("unknown format %q (want table, json or yaml)", format)
	}
}

// writeStructured encodes v as json or yaml.
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(v)
	}
	return fmt.Errorf("unknown format %q", format)
}

// imageState annotates a listed image with its relation to the article.
type imageState struct {
	Attached  bool
	Collected bool
	Included  bool
}

func (s imageState) String() string {
	var marks string
	if s.Attached {
		marks += color.GreenString("attached ")
	}
	if s.Included {
		marks += color.CyanString("in body ")
	}
	if s.Collected {
		marks += color.YellowString("basket")
	}
	return marks
}

// printImages writes images in the requested format. state may be nil.
func printImages(w io.Writer, format string, images []media.Image, state func(id int) imageState) error {
	if format == "json" || format == "yaml" {
		if images == nil {
			images = []media.Image{}
		}
		return writeStructured(w, format, images)
	}

	table := uitable.New()
	table.MaxColWidth = 48
	table.Wrap = false
	table.AddRow("ID", "NAME", "SIZE", "PHOTOGRAPHER", "DESCRIPTION", "")
	for _, img := range images {
		var st imageState
		if state != nil {
			st = state(img.ID)
		}
		table.AddRow(strconv.Itoa(img.ID), img.Basename, util.Dimensions(img.Width, img.Height),
			img.Photographer, img.Description, st.String())
	}
	_, err := fmt.Fprintln(w, table)
	return err
}

// printUploads writes one row per upload record.
func printUploads(w io.Writer, format string, uploads []*session.Upload) error {
	statuses := make([]session.UploadStatus, len(uploads))
	for i, u := range uploads {
		statuses[i] = u.Status()
	}
	if format == "json" || format == "yaml" {
		return writeStructured(w, format, statuses)
	}

	table := uitable.New()
	table.MaxColWidth = 48
	table.AddRow("FILE", "ID", "SIZE", "SENT", "STATUS")
	for _, st := range statuses {
		id, status := "-", color.GreenString("uploaded")
		switch {
		case st.Err != nil:
			status = color.RedString(st.Err.Error())
		case !st.IsUploaded:
			status = color.YellowString("pending " + st.Percent)
		default:
			id = strconv.Itoa(st.ID)
		}
		table.AddRow(st.Name, id, util.Dimensions(st.Width, st.Height), util.FormatBytes(st.Sent), status)
	}
	_, err := fmt.Fprintln(w, table)
	return err
}
