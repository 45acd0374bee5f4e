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

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sirseerhq/jsonstream/internal/config"
	"github.com/sirseerhq/jsonstream/internal/metadata"
)

func newMetadataCommand() *cobra.Command {
	var (
		configPath  string
		metadataDir string
	)

	cmd := &cobra.Command{
		Use:   "metadata",
		Short: "Show the record of the most recent conversion",
		Long: `Show the metadata record of the most recent conversion saved in the
metadata directory. The directory comes from --metadata-dir, else from the
configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir := metadataDir
			if dir == "" {
				cfg, err := config.LoadConfig(configPath)
				if err != nil {
					return err
				}
				dir = cfg.MetadataDir
			}
			if dir == "" {
				return fmt.Errorf("no metadata directory configured. Use --metadata-dir or set metadata_dir in the configuration")
			}

			m, err := metadata.LoadLatestMetadata(dir)
			if err != nil {
				return err
			}
			if m == nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "No conversion metadata found in %s\n", dir)
				return nil
			}
			return metadata.WriteMetadata(cmd.OutOrStdout(), m)
		},
	}

	cmd.Flags().StringVar(&metadataDir, "metadata-dir", "", "Directory holding conversion metadata records")
	cmd.Flags().StringVar(&configPath, "config", "", "Configuration file path")

	return cmd
}
