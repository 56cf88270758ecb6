package parser

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	stderrors "errors" // Standard errors package

	"github.com/mcncl/jsontab/internal/errors"
	"github.com/mcncl/jsontab/internal/models"
)

// Parse converts JSON or JSON-Lines data from an io.Reader into a Document.
// The whole input is read into memory first; there is no streaming mode for
// very large files. The input is tried as one JSON document, and on failure
// reinterpreted as JSON-Lines with one standalone document per non-blank line.
func Parse(reader io.Reader) (models.Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read input", err)
	}
	return parseBytes(data)
}

// ParseString parses JSON or JSON-Lines from a string
func ParseString(jsonString string) (models.Document, error) {
	return parseBytes([]byte(jsonString))
}

// ParseFile parses JSON or JSON-Lines from a file path
func ParseFile(filePath string) (models.Document, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Document{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	file, err := os.Open(filePath)
	if err != nil {
		// Check if the file doesn't exist
		if os.IsNotExist(err) {
			return models.Document{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}
	defer func() {
		if err := file.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Error closing file: %v\n", err)
		}
	}()

	// Check for empty file before parsing
	stat, err := file.Stat()
	if err != nil {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.Size() == 0 {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	return Parse(file)
}

func parseBytes(data []byte) (models.Document, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return models.Document{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	root, firstErr := parseSingle(data)
	if firstErr == nil {
		return newDocument(root, false), nil
	}

	// Retry as JSON Lines: one standalone document per non-blank line,
	// collected in line order.
	var records models.JSONArray
	for i, line := range strings.Split(string(data), "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		val, err := parseSingle([]byte(trimmed))
		if err != nil {
			if len(records) > 0 {
				return models.Document{}, errors.NewParsingError(
					fmt.Sprintf("invalid JSON on line %d", i+1),
					&errors.ParseError{Line: i + 1, Err: err},
				)
			}
			// Neither grammar produced a record; the whole-document
			// failure carries the most diagnostic value.
			break
		}
		records = append(records, val)
	}
	if len(records) == 0 {
		return models.Document{}, singleDocError(data, firstErr)
	}
	return newDocument(records, true), nil
}

func newDocument(root models.JSONValue, fromLines bool) models.Document {
	doc := models.Document{Root: root, FromLines: fromLines}
	if _, ok := root.(models.JSONArray); ok {
		doc.RootIsArray = true
	}
	return doc
}

// parseSingle decodes exactly one JSON document from data, token by token,
// so object member order survives into the JSONObject model. Anything but
// whitespace after the first value is an error.
func parseSingle(data []byte) (models.JSONValue, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber() // Ensure numbers are read as json.Number

	val, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !stderrors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w at offset %d", errors.ErrTrailingData, dec.InputOffset())
	}
	return val, nil
}

func decodeValue(dec *json.Decoder) (models.JSONValue, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	delim, ok := tok.(json.Delim)
	if !ok {
		return tok, nil // string, json.Number, bool or nil
	}
	switch delim {
	case '{':
		return decodeObject(dec)
	case '[':
		return decodeArray(dec)
	}
	// Token() validates nesting, so a stray closing delimiter never gets here.
	return nil, fmt.Errorf("unexpected delimiter %q", delim.String())
}

func decodeObject(dec *json.Decoder) (models.JSONObject, error) {
	obj := models.JSONObject{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key %v is not a string", keyTok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj = append(obj, models.Member{Key: key, Value: val})
	}
	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) (models.JSONArray, error) {
	arr := models.JSONArray{}
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, val)
	}
	// Consume the closing bracket.
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return arr, nil
}

// singleDocError wraps a single-document parse failure with its position in
// the input.
func singleDocError(data []byte, err error) error {
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return errors.NewParsingError(
			"invalid JSON",
			&errors.ParseError{
				Line:   lineAt(data, syntaxErr.Offset),
				Offset: syntaxErr.Offset,
				Err:    syntaxErr,
			},
		)
	}
	if stderrors.Is(err, io.ErrUnexpectedEOF) || stderrors.Is(err, io.EOF) {
		return errors.NewParsingError("unexpected end of JSON input", &errors.ParseError{Err: io.ErrUnexpectedEOF})
	}
	if stderrors.Is(err, errors.ErrTrailingData) {
		return errors.NewParsingError("multiple JSON values in input", err)
	}
	return errors.NewParsingError("failed to decode JSON", err)
}

// lineAt returns the 1-based line containing the byte at offset.
func lineAt(data []byte, offset int64) int {
	if offset < 1 {
		return 0
	}
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return 1 + bytes.Count(data[:offset], []byte("\n"))
}
