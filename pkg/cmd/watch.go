// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/consensys/go-termweave/pkg/compiler"
	"github.com/consensys/go-termweave/pkg/graph"
	"github.com/fsnotify/fsnotify"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch [flags] fixture_file",
	Short: "resynthesise a definition whenever its fixture changes.",
	Long: `Watch a graph fixture, synthesising its definition afresh every time the file
	is written.  When templates are read from a file, changes to that file are picked
	up too.  This runs until interrupted.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) != 1 {
			fmt.Println(cmd.UsageString())
			os.Exit(1)
		}
		//
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		//
		if err := watch(ctx, cmd, args[0]); err != nil {
			fmt.Println(err)
			os.Exit(2)
		}
	},
}

func watch(ctx context.Context, cmd *cobra.Command, filename string) error {
	var (
		templates = getTemplates(cmd)
		target    = filepath.Clean(filename)
		source    = GetString(cmd, "templates")
	)
	//
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	//
	defer watcher.Close()
	// Editors often replace files, so watch the enclosing directories.
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return err
	}
	//
	if source != "" {
		source = filepath.Clean(source)
		//
		if err := watcher.Add(filepath.Dir(source)); err != nil {
			return err
		}
	}
	//
	rebuild(cmd, target, templates)
	//
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			} else if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			//
			switch filepath.Clean(event.Name) {
			case target:
				log.Debugf("%s changed (%s)", event.Name, event.Op)
			case source:
				log.Debugf("templates %s changed (%s)", event.Name, event.Op)
				//
				if err := templates.Reload(); err != nil {
					log.Warnf("keeping previous templates: %s", err)
					continue
				}
			default:
				continue
			}
			//
			rebuild(cmd, target, templates)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			//
			log.Warnf("watch error: %s", err)
		}
	}
}

// Synthesise a fixture, reporting (rather than exiting on) any errors.
func rebuild(cmd *cobra.Command, filename string, templates *graph.TemplateCache) {
	fixture, err := graph.Load(afero.NewOsFs(), filename, templates)
	if err != nil {
		fmt.Println(err)
		return
	}
	//
	out, err := compiler.Compile(context.Background(), fixture.Graph, fixture.Start, getConfig(cmd, fixture.Name))
	writeMetrics(cmd)
	//
	if err != nil {
		reportError(filename, out.Text, err)
	} else {
		fmt.Print(out.Text)
	}
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
