package render

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rotisserie/eris"
)

// Slide geometry in EMUs (4:3, 10in x 7.5in)
const (
	emuPerInch  = 914400
	slideWidth  = 9144000
	slideHeight = 6858000
)

const (
	nsA = "http://schemas.openxmlformats.org/drawingml/2006/main"
	nsR = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	nsP = "http://schemas.openxmlformats.org/presentationml/2006/main"

	relOfficeDoc   = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument"
	relCoreProps   = "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties"
	relExtProps    = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/extended-properties"
	relSlideMaster = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideMaster"
	relSlideLayout = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slideLayout"
	relSlide       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/slide"
	relTheme       = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/theme"

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"
)

type box struct{ x, y, cx, cy int64 }

// part is one entry of the package archive
type part struct{ name, body string }

func inches(v float64) int64 { return int64(v * emuPerInch) }

var (
	coverTitleBox = box{inches(0.75), inches(2.13), inches(8.5), inches(1.47)}
	coverSubBox   = box{inches(1.5), inches(3.9), inches(7), inches(1.75)}
	titleBox      = box{inches(0.5), inches(0.3), inches(9), inches(1)}
	bodyBox       = box{inches(0.5), inches(1.5), inches(9), inches(5)}
)

// WritePPTX writes deck as a PowerPoint package
func WritePPTX(deck Deck, w io.Writer) error {
	if len(deck.Slides) == 0 {
		return eris.New("deck has no slides")
	}

	modified := deck.GeneratedAt
	if modified.IsZero() {
		modified = time.Now()
	}

	parts := []part{
		{"[Content_Types].xml", contentTypesXML(len(deck.Slides))},
		{"_rels/.rels", rootRelsXML()},
		{"docProps/core.xml", corePropsXML(deck.Title, modified)},
		{"docProps/app.xml", appPropsXML(len(deck.Slides))},
		{"ppt/presentation.xml", presentationXML(len(deck.Slides))},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML(len(deck.Slides))},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", relsXML(
			rel{"rId1", relSlideLayout, "../slideLayouts/slideLayout1.xml"},
			rel{"rId2", relTheme, "../theme/theme1.xml"},
		)},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", relsXML(
			rel{"rId1", relSlideMaster, "../slideMasters/slideMaster1.xml"},
		)},
		{"ppt/theme/theme1.xml", themeXML},
	}
	for i, s := range deck.Slides {
		parts = append(parts,
			part{fmt.Sprintf("ppt/slides/slide%d.xml", i+1), slideXML(s)},
			part{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), relsXML(
				rel{"rId1", relSlideLayout, "../slideLayouts/slideLayout1.xml"},
			)},
		)
	}

	zw := zip.NewWriter(w)
	for _, pt := range parts {
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     pt.name,
			Method:   zip.Deflate,
			Modified: modified,
		})
		if err != nil {
			return eris.Wrapf(err, "create %s", pt.name)
		}
		if _, err := io.WriteString(fw, pt.body); err != nil {
			return eris.Wrapf(err, "write %s", pt.name)
		}
	}
	if err := zw.Close(); err != nil {
		return eris.Wrap(err, "close pptx archive")
	}
	return nil
}

func esc(s string) string {
	var b bytes.Buffer
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

type rel struct{ id, typ, target string }

func relsXML(rels ...rel) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for _, r := range rels {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`, r.id, r.typ, r.target)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func rootRelsXML() string {
	return relsXML(
		rel{"rId1", relOfficeDoc, "ppt/presentation.xml"},
		rel{"rId2", relCoreProps, "docProps/core.xml"},
		rel{"rId3", relExtProps, "docProps/app.xml"},
	)
}

func contentTypesXML(slides int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	b.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"/>`)
	b.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for i := 1; i <= slides; i++ {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.slide+xml"/>`, i)
	}
	b.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	b.WriteString(`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>`)
	b.WriteString(`</Types>`)
	return b.String()
}

func corePropsXML(title string, modified time.Time) string {
	ts := modified.UTC().Format(time.RFC3339)
	return xmlHeader +
		`<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" ` +
		`xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" ` +
		`xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>` + esc(title) + `</dc:title>` +
		`<dc:creator>cimbrief</dc:creator>` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + ts + `</dcterms:created>` +
		`<dcterms:modified xsi:type="dcterms:W3CDTF">` + ts + `</dcterms:modified>` +
		`</cp:coreProperties>`
}

func appPropsXML(slides int) string {
	return xmlHeader +
		`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties">` +
		`<Application>cimbrief</Application>` +
		fmt.Sprintf(`<Slides>%d</Slides>`, slides) +
		`</Properties>`
}

func presentationXML(slides int) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s" saveSubsetFonts="1">`, nsA, nsR, nsP)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	b.WriteString(`<p:sldIdLst>`)
	for i := 0; i < slides; i++ {
		fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+3)
	}
	b.WriteString(`</p:sldIdLst>`)
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d" type="screen4x3"/>`, slideWidth, slideHeight)
	b.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func presentationRelsXML(slides int) string {
	rels := []rel{
		{"rId1", relSlideMaster, "slideMasters/slideMaster1.xml"},
		{"rId2", relTheme, "theme/theme1.xml"},
	}
	for i := 0; i < slides; i++ {
		rels = append(rels, rel{fmt.Sprintf("rId%d", i+3), relSlide, fmt.Sprintf("slides/slide%d.xml", i+1)})
	}
	return relsXML(rels...)
}

func slideXML(s Slide) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">`, nsA, nsR, nsP)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(groupProps)

	if s.Kind == SlideCover {
		writeShape(&b, 2, "Title 1", "ctrTitle", coverTitleBox, "ctr", []Paragraph{s.Title})
		writeShape(&b, 3, "Subtitle 2", "subTitle", coverSubBox, "ctr", s.Subtitle)
	} else {
		writeShape(&b, 2, "Title 1", "title", titleBox, "", []Paragraph{s.Title})
		if len(s.Body) > 0 {
			writeShape(&b, 3, "TextBox 2", "", bodyBox, "", s.Body)
		}
	}

	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}

const groupProps = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
	`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`

// writeShape emits a placeholder shape (ph != "") or a plain text box
func writeShape(b *strings.Builder, id int, name, ph string, at box, align string, paras []Paragraph) {
	b.WriteString(`<p:sp><p:nvSpPr>`)
	fmt.Fprintf(b, `<p:cNvPr id="%d" name="%s"/>`, id, esc(name))
	if ph != "" {
		b.WriteString(`<p:cNvSpPr><a:spLocks noGrp="1"/></p:cNvSpPr>`)
		fmt.Fprintf(b, `<p:nvPr><p:ph type="%s"/></p:nvPr>`, ph)
	} else {
		b.WriteString(`<p:cNvSpPr txBox="1"/><p:nvPr/>`)
	}
	b.WriteString(`</p:nvSpPr>`)

	fmt.Fprintf(b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`, at.x, at.y, at.cx, at.cy)
	b.WriteString(`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom></p:spPr>`)

	b.WriteString(`<p:txBody><a:bodyPr wrap="square" rtlCol="0"><a:normAutofit/></a:bodyPr><a:lstStyle/>`)
	if len(paras) == 0 {
		b.WriteString(`<a:p><a:endParaRPr lang="en-US"/></a:p>`)
	}
	for _, p := range paras {
		writeParagraph(b, p, align)
	}
	b.WriteString(`</p:txBody></p:sp>`)
}

func writeParagraph(b *strings.Builder, p Paragraph, align string) {
	b.WriteString(`<a:p>`)

	alignAttr := ""
	if align != "" {
		alignAttr = fmt.Sprintf(` algn="%s"`, align)
	}
	switch p.Kind {
	case ParagraphBullet:
		fmt.Fprintf(b, `<a:pPr marL="342900" indent="-342900"%s><a:buFont typeface="Arial"/><a:buChar char="&#8226;"/></a:pPr>`, alignAttr)
	case ParagraphNumbered:
		fmt.Fprintf(b, `<a:pPr marL="457200" indent="-457200"%s><a:buFont typeface="+mj-lt"/><a:buAutoNum type="arabicPeriod"/></a:pPr>`, alignAttr)
	default:
		fmt.Fprintf(b, `<a:pPr%s><a:buNone/></a:pPr>`, alignAttr)
	}

	props := runProps(p)
	if p.Kind == ParagraphBlank || p.Text == "" {
		fmt.Fprintf(b, `<a:endParaRPr%s/>`, props)
	} else {
		fmt.Fprintf(b, `<a:r><a:rPr%s/><a:t>%s</a:t></a:r>`, props, esc(p.Text))
	}
	b.WriteString(`</a:p>`)
}

func runProps(p Paragraph) string {
	attrs := ` lang="en-US"`
	if p.Size > 0 {
		attrs += fmt.Sprintf(` sz="%d"`, p.Size*100)
	}
	if p.Bold {
		attrs += ` b="1"`
	}
	if p.Italic {
		attrs += ` i="1"`
	}
	return attrs + ` dirty="0"`
}
