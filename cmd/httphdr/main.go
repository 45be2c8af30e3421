// Command httphdr parses and classifies HTTP header fields and encodes or decodes message bodies.
//
// Usage:
//
//	httphdr parse [--direction request|response] [--json] [file]
//	httphdr classify name...
//	httphdr classify --category HOP_BY_HOP
//	httphdr encode --coding gzip,chunked [file]
//	httphdr decode --coding gzip,chunked [file]
//	httphdr decode --headers fields.txt [file]
//	httphdr codecs
//
// Settings are read from HTTPHDR_* environment variables and an optional .env file,
// command line flags take precedence.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
