package settings

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// keyOrder records the member order of every object in a parsed document,
// keyed by JSON pointer ("" is the top level).
type keyOrder map[string][]string

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

func childPointer(parent, key string) string {
	return parent + "/" + pointerEscaper.Replace(key)
}

// readKeyOrder walks the tokens of data and returns the order in which
// object members appear.
func readKeyOrder(data []byte) (keyOrder, error) {
	order := make(keyOrder)
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := walkValue(dec, "", order); err != nil {
		return nil, err
	}
	return order, nil
}

func walkValue(dec *json.Decoder, pointer string, order keyOrder) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}

	switch tok {
	case json.Delim('{'):
		for dec.More() {
			keyTok, err := dec.Token()
			if err != nil {
				return err
			}
			key, ok := keyTok.(string)
			if !ok {
				return fmt.Errorf("unexpected object key %v", keyTok)
			}
			order[pointer] = append(order[pointer], key)
			if err := walkValue(dec, childPointer(pointer, key), order); err != nil {
				return err
			}
		}
		_, err = dec.Token()
		return err
	case json.Delim('['):
		for i := 0; dec.More(); i++ {
			if err := walkValue(dec, pointer+"/"+strconv.Itoa(i), order); err != nil {
				return err
			}
		}
		_, err = dec.Token()
		return err
	}
	return nil
}

// orderedKeys returns the keys of obj in their recorded order. Keys added
// since parsing follow in sorted order.
func orderedKeys(obj map[string]interface{}, recorded []string) []string {
	keys := make([]string, 0, len(obj))
	seen := make(map[string]bool, len(obj))
	for _, key := range recorded {
		if _, ok := obj[key]; ok && !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}

	var added []string
	for key := range obj {
		if !seen[key] {
			added = append(added, key)
		}
	}
	sort.Strings(added)
	return append(keys, added...)
}

// encodeValue writes v as 2-space indented JSON. Object members keep the
// order recorded in order and strings are written without HTML escaping.
func encodeValue(buf *bytes.Buffer, v interface{}, pointer, indent string, order keyOrder) error {
	inner := indent + "  "

	switch val := v.(type) {
	case map[string]interface{}:
		if len(val) == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		for i, key := range orderedKeys(val, order[pointer]) {
			if i > 0 {
				buf.WriteString(",\n")
			}
			buf.WriteString(inner)
			if err := encodeScalar(buf, key); err != nil {
				return err
			}
			buf.WriteString(": ")
			if err := encodeValue(buf, val[key], childPointer(pointer, key), inner, order); err != nil {
				return err
			}
		}
		buf.WriteString("\n" + indent + "}")
	case []interface{}:
		if len(val) == 0 {
			buf.WriteString("[]")
			return nil
		}
		buf.WriteString("[\n")
		for i, elem := range val {
			if i > 0 {
				buf.WriteString(",\n")
			}
			buf.WriteString(inner)
			if err := encodeValue(buf, elem, pointer+"/"+strconv.Itoa(i), inner, order); err != nil {
				return err
			}
		}
		buf.WriteString("\n" + indent + "]")
	default:
		return encodeScalar(buf, val)
	}
	return nil
}

func encodeScalar(buf *bytes.Buffer, v interface{}) error {
	var tmp bytes.Buffer
	enc := json.NewEncoder(&tmp)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return err
	}
	buf.Write(bytes.TrimSuffix(tmp.Bytes(), []byte("\n")))
	return nil
}
