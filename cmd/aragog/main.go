// Copyright 2025 Agentic World, LLC (Sherin Thomas)
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

// Aragog CLI
//
// Polite single-host web crawler. Crawls one domain breadth-first,
// obeying robots.txt and a strict request rate, and prints every URL it
// discovers. With -graph it also records the link graph.
//
// Usage:
//
//	aragog -domain www.example.com [flags]
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/LachlanMarnham/aragog"
	"github.com/LachlanMarnham/aragog/debug"
	"github.com/LachlanMarnham/aragog/graph"
	"github.com/LachlanMarnham/aragog/internal/version"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("aragog", flag.ExitOnError)
	domain := fs.String("domain", "", "The root of the website you want to crawl, e.g. www.example.com/ (required)")
	schema := fs.String("schema", "https://", "The url schema (http:// or https://)")
	graphEnabled := fs.Bool("graph", false, "Record the discovered link graph")
	dbPath := fs.String("db", "", "Sqlite path for the link graph (default ~/.aragog/aragog.db, implies -graph)")
	dotPath := fs.String("dot", "", "Write the link graph in Graphviz DOT format to this file (implies -graph)")
	rate := fs.Float64("rate", 10, "Maximum fetches per second")
	userAgent := fs.String("agent", "", "Override the User-Agent header")
	verbose := fs.Bool("verbose", false, "Log crawler events to stderr")
	showVersion := fs.Bool("version", false, "Show version information")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *showVersion {
		fmt.Printf("aragog %s\n", version.Version)
		return nil
	}

	config := aragog.NewDefaultConfig()
	config.Domain = *domain
	config.Schema = *schema
	if *rate > 0 {
		config.MaxRate = *rate
	}
	if *userAgent != "" {
		config.UserAgent = *userAgent
	}

	crawler, err := aragog.NewCrawler(config)
	if err != nil {
		return err
	}

	if *verbose {
		crawler.SetDebugger(&debug.LogDebugger{Prefix: "aragog "})
	}

	var memoryGraph *graph.Memory
	var edgeStore *graph.Store
	if *graphEnabled || *dbPath != "" || *dotPath != "" {
		memoryGraph = graph.NewMemory()
		observers := []graph.Observer{memoryGraph}

		path := *dbPath
		if path == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return fmt.Errorf("failed to get user home directory: %v", err)
			}
			path = filepath.Join(homeDir, ".aragog", "aragog.db")
		}
		edgeStore, err = graph.NewStore(path)
		if err != nil {
			return err
		}
		defer edgeStore.Close()
		observers = append(observers, edgeStore)

		crawler.SetObserver(graph.Multi(observers...))
	}

	crawler.SetOnURLDiscovered(func(url string) {
		fmt.Println(url)
	})
	crawler.SetOnPageCrawled(func(page *aragog.PageResult) {
		if page.Error != "" {
			fmt.Fprintf(os.Stderr, "failed: %s (%s)\n", page.URL, page.Error)
		}
	})
	crawler.SetOnCrawlComplete(func(totalPages, totalDiscovered int) {
		fmt.Fprintf(os.Stderr, "crawl complete: %d pages crawled, %d URLs discovered\n", totalPages, totalDiscovered)
	})

	if err := crawler.Run(); err != nil {
		return err
	}

	if *dotPath != "" {
		f, err := os.Create(*dotPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := memoryGraph.WriteDOT(f); err != nil {
			return err
		}
	}
	return nil
}
