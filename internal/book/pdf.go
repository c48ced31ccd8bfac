package book

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

const pointsPerInch = 72.0

// WritePDF writes pages as one PDF, one image per page placed edge to edge.
// The physical page size is the pixel size divided by the layout DPI.
func WritePDF(w io.Writer, pages []ComposedPage, layout Layout, title string) error {
	size := gofpdf.SizeType{
		Wd: float64(layout.PageWidth()) * pointsPerInch / float64(layout.DPI),
		Ht: float64(layout.PageHeight()) * pointsPerInch / float64(layout.DPI),
	}

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           size,
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("coloringbook", true)

	opt := gofpdf.ImageOptions{ImageType: "PNG"}
	for i, page := range pages {
		name := "page-" + strconv.Itoa(i+1)
		pdf.AddPageFormat("P", size)
		pdf.RegisterImageOptionsReader(name, opt, bytes.NewReader(page.PNG))
		pdf.ImageOptions(name, 0, 0, size.Wd, size.Ht, false, opt, 0, "")
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("page %d (%s): %w", i+1, page.Name, err)
		}
	}

	return pdf.Output(w)
}
