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

package graph

import (
	"fmt"
	"os"
	"path/filepath"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Edge is a persisted parent->child hyperlink discovered during a crawl
type Edge struct {
	ID        uint   `gorm:"primaryKey"`
	ParentURL string `gorm:"index:idx_edge,unique;not null"`
	ChildURL  string `gorm:"index:idx_edge,unique;not null"`
	CreatedAt int64  `gorm:"autoCreateTime"`
}

// Store is an Observer that appends edges to a sqlite database, so a crawl's
// link graph survives the session and can be inspected with ordinary tools.
type Store struct {
	db *gorm.DB
}

// NewStore opens (or creates) the edge database at dbPath
func NewStore(dbPath string) (*Store, error) {
	dbDir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %v", err)
	}

	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	if err := db.AutoMigrate(&Edge{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %v", err)
	}
	return &Store{db: db}, nil
}

// AddEdge implements Observer. Re-recording a known edge is not an error.
func (s *Store) AddEdge(parentURL, childURL string) error {
	result := s.db.Where(&Edge{ParentURL: parentURL, ChildURL: childURL}).
		FirstOrCreate(&Edge{ParentURL: parentURL, ChildURL: childURL})
	return result.Error
}

// Edges returns every recorded edge in insertion order
func (s *Store) Edges() ([]Edge, error) {
	var edges []Edge
	if result := s.db.Order("id").Find(&edges); result.Error != nil {
		return nil, result.Error
	}
	return edges, nil
}

// EdgeCount returns the number of distinct recorded edges
func (s *Store) EdgeCount() (int64, error) {
	var count int64
	if result := s.db.Model(&Edge{}).Count(&count); result.Error != nil {
		return 0, result.Error
	}
	return count, nil
}

// Close releases the underlying database handle
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
