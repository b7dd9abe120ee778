// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command importer loads the YaMDb fixture CSV files into the database.
//
// # Usage
//
//	importer --dir ./static/data --migrate
//
// The whole load runs in one transaction: either every file lands or none do.
package main

func main() {
	Execute()
}
