/*
 * stremio-xtream is a gateway that exposes Xtream Codes IPTV accounts
 * as a Stremio catalog/stream addon.
 * Copyright (C) 2026  Jan van den Berg
 *
 * This program is free software: you can redistribute it and/or modify
 * it under the terms of the GNU General Public License as published by
 * the Free Software Foundation, either version 3 of the License, or
 * (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU General Public License
 * along with this program.  If not, see <https://www.gnu.org/licenses/>.
 */

package cmd

import (
	"fmt"
	"log"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/jvdberg/stremio-xtream/pkg/config"
	"github.com/jvdberg/stremio-xtream/pkg/server"
	"github.com/jvdberg/stremio-xtream/pkg/utils"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "stremio-xtream",
	Short: "Stremio addon gateway for Xtream Codes IPTV accounts",
	Long: `stremio-xtream turns one or more Xtream Codes IPTV accounts into a
Stremio addon. Accounts are carried entirely inside the addon URL as a
base64 token, so the gateway itself stays stateless.

It serves:
- The Stremio manifest, catalog, stream and meta resources
- An aggregated M3U playlist export across all active accounts
- Credential and category lookups for the configuration page`,

	Run: func(cmd *cobra.Command, args []string) {
		defer utils.Close()

		conf := &config.AppConfig{
			HostConfig: &config.HostConfiguration{
				Hostname: viper.GetString("hostname"),
				Port:     viper.GetInt("port"),
			},
			HTTPS:           viper.GetBool("https"),
			UpstreamTimeout: viper.GetInt("upstream-timeout"),
			PublicURL:       viper.GetString("public-url"),
		}

		server, err := server.NewServer(conf)
		if err != nil {
			log.Fatal(err)
		}

		if err := server.Serve(); err != nil {
			log.Fatal(err)
		}
	},
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	// Config file flag
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default is $HOME/.stremio-xtream.yaml)")

	rootCmd.Flags().Int("port", 8080, "Listening port")
	rootCmd.Flags().String("hostname", "", "Hostname to use in generated URLs")
	rootCmd.Flags().BoolP("https", "", false, "Use HTTPS for generated URLs")
	rootCmd.Flags().Int("upstream-timeout", 10, "Per-account timeout for panel requests, in seconds")
	rootCmd.Flags().String("public-url", "", "Public base URL shown on the configuration page")

	// Bind all flags to viper
	if err := viper.BindPFlags(rootCmd.Flags()); err != nil {
		log.Fatal("Error binding PFlags to viper")
	}
}

// initConfig reads in config file and ENV variables if set
func initConfig() {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}

		// Search config in home directory and current directory
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigName(".stremio-xtream")
	}

	// Replace hyphens with underscores in environment variables
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Read environment variables
	viper.AutomaticEnv()

	// Read in config file if found
	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("Using config file:", viper.ConfigFileUsed())
	}
}
