package hocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tesseractPage = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE html PUBLIC "-//W3C//DTD XHTML 1.0 Transitional//EN" "http://www.w3.org/TR/xhtml1/DTD/xhtml1-transitional.dtd">
<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="en" lang="en">
 <head>
  <title></title>
  <meta http-equiv="Content-Type" content="text/html;charset=utf-8"/>
  <meta name='ocr-system' content='tesseract 5.3.0' />
 </head>
 <body>
  <div class='ocr_page' id='page_1' title='image "unknown"; bbox 0 0 930 1479; ppageno 0'>
   <div class='ocr_carea' id='block_1_1' title="bbox 36 40 390 118">
    <p class='ocr_par' id='par_1_1' lang='eng' title="bbox 36 40 390 118">
     <span class='ocr_line' id='line_1_1' title="bbox 36 40 390 62; baseline 0 -5; x_size 22">
      <span class='ocrx_word' id='word_1_1' title='bbox 36 40 250 62; x_wconf 91'>FCS0702-01-03</span>
     </span>
     <span class='ocr_caption' id='line_1_2' title="bbox 40 90 150 118; baseline 0 -4">
      <span class='ocrx_word' id='word_1_2' title='bbox 40 90 110 118; x_wconf 96'>NODE</span>
      <span class='ocrx_word' id='word_1_3' title='bbox 120 90 150 118; x_wconf 88'><strong>3</strong></span>
     </span>
    </p>
   </div>
   <span class='ocrx_word' id='word_1_9' title='bbox 500 600 540 620; x_wconf 70'>7</span>
  </div>
 </body>
</html>`

func TestParseHOCRFlattensLines(t *testing.T) {
	pages, err := ParseHOCR([]byte(tesseractPage))
	require.NoError(t, err)
	require.Len(t, pages, 1)

	page := pages[0]
	assert.Equal(t, "page_1", page.ID)
	assert.Equal(t, "unknown", page.ImageName)
	assert.Equal(t, NewBoundingBox(0, 0, 930, 1479), page.BBox)
	require.Len(t, page.Lines, 3)

	first := page.Lines[0]
	assert.Equal(t, "ocr_line", first.Class)
	assert.Equal(t, "FCS0702-01-03", first.Text())
	assert.Equal(t, "0 -5", first.Baseline)
	assert.Equal(t, 91.0, first.Words[0].Confidence)

	second := page.Lines[1]
	assert.Equal(t, "ocr_caption", second.Class)
	assert.Equal(t, "NODE 3", second.Text())
	assert.InDelta(t, 92.0, second.Confidence(), 1e-9)
	assert.Equal(t, 110.0, second.BBox.Width())

	stray := page.Lines[2]
	assert.Equal(t, "7", stray.Text())
	assert.Equal(t, NewBoundingBox(500, 600, 540, 620), stray.BBox)
}

func TestParseHOCRLatin1(t *testing.T) {
	doc := []byte("<html><head><meta http-equiv=\"Content-Type\" content=\"text/html; charset=ISO-8859-1\"></head><body>" +
		"<div class='ocr_page' title='bbox 0 0 10 10'><span class='ocrx_word' title='bbox 1 1 5 5'>Caf\xe9</span></div></body></html>")

	pages, err := ParseHOCR(doc)
	require.NoError(t, err)
	require.Len(t, pages[0].Lines, 1)
	assert.Equal(t, "Café", pages[0].Lines[0].Text())
}

func TestParseHOCRWithoutPages(t *testing.T) {
	_, err := ParseHOCR([]byte("<html><body><p>nothing here</p></body></html>"))
	assert.Error(t, err)
}

func TestParseTitle(t *testing.T) {
	props := ParseTitle("bbox 100 200 300 400; x_wconf 95;  baseline 0.01 -3")
	assert.Equal(t, []string{"100", "200", "300", "400"}, props["bbox"])
	assert.Equal(t, []string{"95"}, props["x_wconf"])
	assert.Equal(t, []string{"0.01", "-3"}, props["baseline"])

	assert.Nil(t, ParseBoundingBoxFromTitle("x_wconf 95"))
	assert.Nil(t, ParseBoundingBoxFromTitle("bbox 1 2 three 4"))
	assert.Equal(t, &BoundingBox{1, 2, 3, 4}, ParseBoundingBoxFromTitle("bbox 1 2 3 4"))
}
