// Package hocr parses hOCR, the HTML based format Tesseract emits for OCR
// results, into a flat page → line → word model.
//
// Only the parts the redliner needs are kept: bounding boxes, word
// confidences and the text itself. Content areas and paragraphs are
// flattened away; every ocr_line (and the other line-level classes Tesseract
// produces, such as ocr_caption or ocr_header) becomes a Line, and words found
// outside any line become single-word lines.
//
// Key Types:
//
// - Page: A page with class 'ocr_page'
// - Line: A text line with its words
// - Word: A single word with class 'ocrx_word'
// - BoundingBox: The 'bbox' property of an element
//
// Main Functions:
//
// - ParseHOCR: Parses hOCR data into pages
// - ParseTitle: Splits an hOCR title attribute into properties
package hocr
