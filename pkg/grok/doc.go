// Package grok extracts named, typed fields from unstructured text using
// composable named patterns.
//
// A pattern library maps names to regular expression templates. Templates
// may reference other patterns:
//
//	%{NAME}              splice NAME in without capturing
//	%{NAME:field}        capture the text NAME matched as field
//	%{NAME:field:type}   capture and convert (int, float, bool, string)
//
// Field names may contain dots and brackets ("source.ip", "[http][verb]")
// and may repeat; they are never used as regex group names.
//
// # Basic Usage
//
//	store, err := grok.NewDefaultStore()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	p, err := store.Compile(`%{IPORHOST:client.ip} %{WORD:verb} %{NUMBER:bytes:int}`)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fields, err := p.Parse("10.0.0.1 GET 512")
//	// fields == map[string]any{"client.ip": "10.0.0.1", "verb": "GET", "bytes": int64(512)}
//
// # Match Semantics
//
// Match finds the leftmost match; add ^ and $ to anchor. Groups that do not
// take part in the match are absent from the result. When a field name is
// captured more than once the last participating occurrence wins;
// [MatchResult.CaptureAll] returns every occurrence instead.
//
// Typed fields that fail to convert are handled by the pattern's
// [ConversionPolicy]: [ConvertStrict] (the default) returns a
// [*TypeConversionError], [ConvertKeepRaw] keeps the text and [ConvertDrop]
// omits the field.
//
// # Engines
//
// Patterns run on the standard library regexp package by default.
// [WithEngine] selects [EngineCoregex] or [EngineRE2] instead. All engines
// use RE2 syntax: lookaround and backreferences are not available.
//
// # Pattern Files
//
// Bundled catalogs and pattern files are handled by the [pattern]
// subpackage; [Store.RegisterSet] and [Store.RegisterFile] load them.
//
// # Concurrency
//
// A Store may be used from multiple goroutines. A compiled Pattern is
// immutable and Match may be called concurrently. Each MatchResult belongs
// to the goroutine that created it.
package grok
