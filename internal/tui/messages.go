package tui

import "github.com/matheuskafuri/hnsort/internal/crawl"

type crawlDoneMsg struct {
	result *crawl.Result
}

type crawlErrMsg struct {
	err error
}

type openErrMsg struct {
	err error
}
