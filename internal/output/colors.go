// Copyright 2025 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package output

import "github.com/fatih/color"

// Colors holds the functions used to paint each token class. A nil field
// leaves that class unpainted.
type Colors struct {
	Key     func(a ...interface{}) string
	String  func(a ...interface{}) string
	Number  func(a ...interface{}) string
	Literal func(a ...interface{}) string
	Punct   func(a ...interface{}) string
}

// NewColors returns the default terminal palette.
func NewColors() *Colors {
	return &Colors{
		Key:     color.New(color.FgBlue, color.Bold).SprintFunc(),
		String:  color.New(color.FgGreen).SprintFunc(),
		Number:  color.New(color.FgCyan).SprintFunc(),
		Literal: color.New(color.FgMagenta).SprintFunc(),
		Punct:   color.New(color.Faint).SprintFunc(),
	}
}

type tokenClass int

const (
	classPunct tokenClass = iota
	classKey
	classString
	classNumber
	classLiteral
)

func (c *Colors) paint(dst []byte, class tokenClass, token []byte) []byte {
	var fn func(a ...interface{}) string
	if c != nil {
		switch class {
		case classKey:
			fn = c.Key
		case classString:
			fn = c.String
		case classNumber:
			fn = c.Number
		case classLiteral:
			fn = c.Literal
		default:
			fn = c.Punct
		}
	}
	if fn == nil {
		return append(dst, token...)
	}
	return append(dst, fn(string(token))...)
}
