// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns of the yamdb PostgreSQL schema.
//
// Repositories that build SQL dynamically and the CSV importer read names
// from here instead of repeating string literals.
package schema

// Name is the PostgreSQL schema holding every YaMDb table.
const Name = "yamdb"
