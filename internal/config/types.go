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

// Package config types define the configuration structures used by
// jsonstream. These types represent settings that can be loaded from YAML
// configuration files, environment variables, or command-line flags.
package config

// Color modes accepted by OutputConfig.Color.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Config represents the complete configuration for jsonstream.
type Config struct {
	Format      FormatConfig              `yaml:"format"`
	Output      OutputConfig              `yaml:"output"`
	MetadataDir string                    `yaml:"metadata_dir"`
	Inputs      map[string]InputOverrides `yaml:"inputs"`
}

// FormatConfig controls how documents are rendered. The fields mirror
// output.Options; the policies are stored by name.
type FormatConfig struct {
	Indent          int    `yaml:"indent"`
	SpaceAfterColon bool   `yaml:"space_after_colon"`
	SpaceAfterComma bool   `yaml:"space_after_comma"`
	NonFinite       string `yaml:"non_finite"`
	TopLevel        string `yaml:"top_level"`
	FinalNewline    bool   `yaml:"final_newline"`
}

// OutputConfig controls where rendered bytes go.
type OutputConfig struct {
	Compression string `yaml:"compression"`
	Color       string `yaml:"color"`
}

// InputOverrides holds settings that apply only to one input format, keyed
// by format name in Config.Inputs. A nil field keeps the global value.
type InputOverrides struct {
	Indent   *int    `yaml:"indent"`
	TopLevel *string `yaml:"top_level"`
}

// DefaultConfig returns the configuration used when nothing else is set:
// two-space indentation, a single strict document, no compression.
func DefaultConfig() *Config {
	return &Config{
		Format: FormatConfig{
			Indent:          2,
			SpaceAfterColon: true,
			NonFinite:       "error",
			TopLevel:        "single",
			FinalNewline:    true,
		},
		Output: OutputConfig{
			Compression: "none",
			Color:       ColorAuto,
		},
		Inputs: make(map[string]InputOverrides),
	}
}
