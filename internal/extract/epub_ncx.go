package extract

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/taylorskalyo/goreader/epub"
)

// NCX XML structures for parsing toc.ncx
type ncx struct {
	NavMap navMap `xml:"navMap"`
}

type navMap struct {
	NavPoints []navPoint `xml:"navPoint"`
}

type navPoint struct {
	Label    navLabel   `xml:"navLabel"`
	Content  navContent `xml:"content"`
	Children []navPoint `xml:"navPoint"`
}

type navLabel struct {
	Text string `xml:"text"`
}

type navContent struct {
	Src string `xml:"src,attr"`
}

// tocTitlesByHref parses the NCX nav map and returns chapter titles keyed by
// content href (full path, fragment-stripped path, and basename all map to
// the same title). Returns an empty map when the EPUB carries no usable NCX.
func tocTitlesByHref(filename string, rf *epub.Rootfile) map[string]string {
	result := make(map[string]string)

	data, err := readNCX(filename, rf)
	if err != nil {
		return result
	}

	var toc ncx
	if err := xml.Unmarshal(data, &toc); err != nil {
		return result
	}

	var collect func(points []navPoint)
	collect = func(points []navPoint) {
		for _, np := range points {
			href := np.Content.Src
			title := strings.TrimSpace(np.Label.Text)

			for _, key := range hrefKeys(href) {
				if _, exists := result[key]; !exists {
					result[key] = title
				}
			}
			collect(np.Children)
		}
	}
	collect(toc.NavMap.NavPoints)

	return result
}

// hrefKeys returns the lookup keys an NCX href should answer to.
func hrefKeys(href string) []string {
	keys := []string{href}
	base := href
	if idx := strings.Index(base, "#"); idx != -1 {
		base = base[:idx]
		keys = append(keys, base)
	}
	if bn := path.Base(base); bn != base {
		keys = append(keys, bn)
	}
	return keys
}

// readNCX locates and reads the NCX file inside the EPUB archive, preferring
// the manifest's declared entry and falling back to any .ncx member.
func readNCX(filename string, rf *epub.Rootfile) ([]byte, error) {
	zr, err := zip.OpenReader(filename)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	var ncxPath string
	for _, item := range rf.Manifest.Items {
		if item.MediaType == "application/x-dtbncx+xml" {
			ncxPath = item.HREF
			break
		}
	}
	if ncxPath == "" {
		for _, f := range zr.File {
			if strings.HasSuffix(strings.ToLower(f.Name), ".ncx") {
				ncxPath = f.Name
				break
			}
		}
	}
	if ncxPath == "" {
		return nil, fmt.Errorf("no NCX file found in EPUB")
	}

	for _, f := range zr.File {
		if f.Name == ncxPath || strings.HasSuffix(f.Name, "/"+ncxPath) || path.Base(f.Name) == path.Base(ncxPath) {
			rc, err := f.Open()
			if err != nil {
				return nil, err
			}
			defer rc.Close()
			return io.ReadAll(rc)
		}
	}

	return nil, fmt.Errorf("NCX file %s not found in archive", ncxPath)
}
