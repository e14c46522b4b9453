package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/kochan17/recruitment-app/constants"
	"github.com/kochan17/recruitment-app/internal/common"
	"github.com/kochan17/recruitment-app/internal/entity"
)

const (
	docxMainPart = "word/document.xml"
	docxRelsPart = "word/_rels/document.xml.rels"

	nsWordML = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"
	nsRels   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsMC     = "http://schemas.openxmlformats.org/markup-compatibility/2006"

	relTypeImageSuffix = "/image"
)

func docxParseError(err error) error {
	return common.NewDocumentParseError(string(constants.DOCX), err)
}

func openDocx(data []byte) (*zip.Reader, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, docxParseError(err)
	}
	return zr, nil
}

func readPart(zr *zip.Reader, name string) ([]byte, error) {
	f, err := zr.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// docxParagraphs returns the text of each w:p in document order. Runs are
// concatenated, w:tab becomes a tab and w:br/w:cr a newline. Paragraphs nested in
// text boxes are emitted before the paragraph that contains them. Word writes each
// text box twice (mc:Choice and a VML mc:Fallback); only the Choice is read.
func docxParagraphs(data []byte) ([]string, error) {
	zr, err := openDocx(data)
	if err != nil {
		return nil, err
	}
	main, err := readPart(zr, docxMainPart)
	if err != nil {
		return nil, docxParseError(fmt.Errorf("%s: %w", docxMainPart, err))
	}

	var (
		paragraphs []string
		open       []*strings.Builder
	)
	dec := xml.NewDecoder(bytes.NewReader(main))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return paragraphs, docxParseError(err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Space == nsMC && t.Name.Local == "Fallback" {
				if err := dec.Skip(); err != nil {
					return paragraphs, docxParseError(err)
				}
				continue
			}
			if t.Name.Space != nsWordML {
				continue
			}
			switch t.Name.Local {
			case "p":
				open = append(open, &strings.Builder{})
			case "t":
				var s string
				if err := dec.DecodeElement(&s, &t); err != nil {
					return paragraphs, docxParseError(err)
				}
				if n := len(open); n > 0 {
					open[n-1].WriteString(s)
				}
			case "tab":
				if n := len(open); n > 0 {
					open[n-1].WriteByte('\t')
				}
			case "br", "cr":
				if n := len(open); n > 0 {
					open[n-1].WriteByte('\n')
				}
			}
		case xml.EndElement:
			if t.Name.Space == nsWordML && t.Name.Local == "p" && len(open) > 0 {
				n := len(open) - 1
				paragraphs = append(paragraphs, open[n].String())
				open = open[:n]
			}
		}
	}
	return paragraphs, nil
}

type relationships struct {
	Items []relationship `xml:"Relationship"`
}

type relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// imageTargets maps relationship IDs of internal image parts to zip paths.
func imageTargets(zr *zip.Reader) (map[string]string, error) {
	raw, err := readPart(zr, docxRelsPart)
	if err != nil {
		// no relationships part means no images
		return map[string]string{}, nil
	}
	var rels relationships
	if err := xml.Unmarshal(raw, &rels); err != nil {
		return nil, docxParseError(fmt.Errorf("%s: %w", docxRelsPart, err))
	}
	out := make(map[string]string, len(rels.Items))
	for _, r := range rels.Items {
		if !strings.HasSuffix(r.Type, relTypeImageSuffix) || strings.EqualFold(r.TargetMode, "External") {
			continue
		}
		target := r.Target
		if strings.HasPrefix(target, "/") {
			target = strings.TrimPrefix(target, "/")
		} else {
			target = path.Join("word", target)
		}
		out[r.ID] = target
	}
	return out, nil
}

// imageRefs lists image relationship IDs in the order the body references them.
// DrawingML pictures use a:blip/@r:embed, legacy VML uses v:imagedata/@r:id.
func imageRefs(main []byte) ([]string, error) {
	var (
		refs []string
		seen = map[string]struct{}{}
	)
	dec := xml.NewDecoder(bytes.NewReader(main))
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return refs, nil
		}
		if err != nil {
			return refs, docxParseError(err)
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		want := ""
		switch se.Name.Local {
		case "blip":
			want = "embed"
		case "imagedata":
			want = "id"
		default:
			continue
		}
		for _, a := range se.Attr {
			if a.Name.Space != nsRels || a.Name.Local != want || a.Value == "" {
				continue
			}
			if _, dup := seen[a.Value]; !dup {
				seen[a.Value] = struct{}{}
				refs = append(refs, a.Value)
			}
		}
	}
}

// docxImages returns each referenced image part once, in document order,
// named image-0.<ext>, image-1.<ext>, ...
func docxImages(data []byte) ([]entity.ExtractedImage, error) {
	zr, err := openDocx(data)
	if err != nil {
		return nil, err
	}
	main, err := readPart(zr, docxMainPart)
	if err != nil {
		return nil, docxParseError(fmt.Errorf("%s: %w", docxMainPart, err))
	}
	targets, err := imageTargets(zr)
	if err != nil {
		return nil, err
	}
	refs, err := imageRefs(main)
	if err != nil {
		return nil, err
	}

	var images []entity.ExtractedImage
	for _, id := range refs {
		target, ok := targets[id]
		if !ok {
			continue
		}
		b, err := readPart(zr, target)
		if err != nil {
			return nil, docxParseError(fmt.Errorf("image part %s: %w", target, err))
		}
		ext := strings.ToLower(path.Ext(target))
		if ext == "" {
			ext = ".png"
		}
		images = append(images, entity.ExtractedImage{
			Name: fmt.Sprintf("image-%d%s", len(images), ext),
			Data: b,
		})
	}
	return images, nil
}
