// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package text

import (
	"slices"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// 🧩 segment is either literal text or a named placeholder
type segment struct {
	literal string
	field   string
}

// 📝 Template is a message with {name} placeholders. Literal braces are
// written as {{ and }}.
type Template struct {
	raw      string
	segments []segment
}

// 🏭 ParseTemplate parses raw and checks every placeholder against allowed.
func ParseTemplate(raw string, allowed ...string) (*Template, error) {
	tmpl := &Template{raw: raw}

	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			tmpl.segments = append(tmpl.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch {
		case c == '{' && i+1 < len(raw) && raw[i+1] == '{':
			lit.WriteByte('{')
			i++
		case c == '}' && i+1 < len(raw) && raw[i+1] == '}':
			lit.WriteByte('}')
			i++
		case c == '{':
			end := strings.IndexByte(raw[i+1:], '}')
			if end < 0 {
				return nil, errors.Errorf("unterminated placeholder at offset %d", i)
			}
			name := raw[i+1 : i+1+end]
			if !slices.Contains(allowed, name) {
				return nil, errors.Errorf("unknown placeholder {%s}", name)
			}
			flush()
			tmpl.segments = append(tmpl.segments, segment{field: name})
			i += end + 1
		case c == '}':
			return nil, errors.Errorf("single '}' at offset %d", i)
		default:
			lit.WriteByte(c)
		}
	}
	flush()

	return tmpl, nil
}

// 🔄 Render substitutes every placeholder with its value. Missing values
// render as an empty string.
func (t *Template) Render(values map[string]string) string {
	var b strings.Builder
	for _, s := range t.segments {
		if s.field == "" {
			b.WriteString(s.literal)
			continue
		}
		b.WriteString(values[s.field])
	}
	return b.String()
}

// String returns the unparsed template.
func (t *Template) String() string {
	return t.raw
}
