package parser

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	lixerrors "github.com/standardbeagle/lix/internal/errors"
)

func captureTexts(captures []Capture, name string) []string {
	var texts []string
	for _, c := range captures {
		if c.Name == name {
			texts = append(texts, c.Text)
		}
	}
	return texts
}

func TestPythonImportCaptures(t *testing.T) {
	engine := NewEngine()

	source := `import os
import numpy as np
from collections import OrderedDict
from .utils import helper
from . import models
`
	captures, err := engine.ImportCaptures(LanguagePython, []byte(source))
	require.NoError(t, err)

	assert.Equal(t, []string{"os", "numpy", "collections"}, captureTexts(captures, "module"))
	assert.Equal(t, []string{".utils", "."}, captureTexts(captures, "relative"))
	assert.Contains(t, captureTexts(captures, "relative.name"), "models")
}

func TestPythonRelativeAnchorSharesMatch(t *testing.T) {
	engine := NewEngine()

	captures, err := engine.ImportCaptures(LanguagePython, []byte("from . import models\n"))
	require.NoError(t, err)

	var anchorMatch, nameMatch uint
	var haveAnchor, haveName bool
	for _, c := range captures {
		switch c.Name {
		case "relative.anchor":
			anchorMatch, haveAnchor = c.Match, true
		case "relative.name":
			nameMatch, haveName = c.Match, true
		}
	}
	require.True(t, haveAnchor, "expected relative.anchor capture")
	require.True(t, haveName, "expected relative.name capture")
	assert.Equal(t, anchorMatch, nameMatch, "anchor and name should come from the same match")
}

func TestRImportCaptures(t *testing.T) {
	engine := NewEngine()

	source := `library(ggplot2)
require("dplyr")
stats::lm(y ~ x)
source("helpers/data_utils.R")
`
	captures, err := engine.ImportCaptures(LanguageR, []byte(source))
	require.NoError(t, err)

	callees := captureTexts(captures, "callee")
	assert.Contains(t, callees, "library")
	assert.Contains(t, callees, "require")
	assert.Contains(t, callees, "source")

	args := captureTexts(captures, "callarg")
	assert.Contains(t, args, "ggplot2")
	assert.Contains(t, args, `"dplyr"`)
	assert.Contains(t, args, `"helpers/data_utils.R"`)

	assert.Equal(t, []string{"stats"}, captureTexts(captures, "nslhs"))
}

func TestGoImportCaptures(t *testing.T) {
	engine := NewEngine()

	source := `package main

import (
	"fmt"
	"github.com/spf13/cobra"
)
`
	captures, err := engine.ImportCaptures(LanguageGo, []byte(source))
	require.NoError(t, err)

	assert.Equal(t, []string{`"fmt"`, `"github.com/spf13/cobra"`}, captureTexts(captures, "import.path"))
}

func TestRustImportCaptures(t *testing.T) {
	engine := NewEngine()

	source := `use crate::utils::helpers;
use serde::{Serialize, Deserialize};
use std::fs::File;
`
	captures, err := engine.ImportCaptures(LanguageRust, []byte(source))
	require.NoError(t, err)

	clauses := captureTexts(captures, "use.clause")
	assert.Equal(t, []string{
		"crate::utils::helpers",
		"serde::{Serialize, Deserialize}",
		"std::fs::File",
	}, clauses)
}

func TestJavaScriptImportCaptures(t *testing.T) {
	engine := NewEngine()

	source := `import React from 'react';
const express = require('express');
define('not-an-import');
twoArgs('a', 'b');
`
	captures, err := engine.ImportCaptures(LanguageJavaScript, []byte(source))
	require.NoError(t, err)

	assert.Equal(t, []string{"'react'"}, captureTexts(captures, "source"))
	// Any single-string-argument call is captured; callers filter on the
	// callee name. Calls with extra arguments never match.
	assert.Equal(t, []string{"require", "define"}, captureTexts(captures, "require.callee"))
	assert.Equal(t, []string{"'express'", "'not-an-import'"}, captureTexts(captures, "require.arg"))
}

func TestJavaScriptRequireBindsArgumentInMatch(t *testing.T) {
	engine := NewEngine()

	source := `import 'unrelated';
const a = require('axios');
`
	captures, err := engine.ImportCaptures(LanguageJavaScript, []byte(source))
	require.NoError(t, err)

	var calleeMatch, argMatch uint
	for _, c := range captures {
		switch c.Name {
		case "require.callee":
			calleeMatch = c.Match
		case "require.arg":
			argMatch = c.Match
		}
	}
	assert.Equal(t, calleeMatch, argMatch, "require callee and argument should share a match")
}

func TestTypeScriptSharesJavaScriptQuery(t *testing.T) {
	engine := NewEngine()

	source := `import { Component } from '@angular/core';
const fs = require('fs');
`
	captures, err := engine.ImportCaptures(LanguageTypeScript, []byte(source))
	require.NoError(t, err)

	assert.Equal(t, []string{"'@angular/core'"}, captureTexts(captures, "source"))
	assert.Equal(t, []string{"'fs'"}, captureTexts(captures, "require.arg"))
}

func TestEmptySource(t *testing.T) {
	engine := NewEngine()

	for _, lang := range Languages() {
		captures, err := engine.ImportCaptures(lang, []byte(""))
		require.NoError(t, err, "language %s", lang)
		assert.Empty(t, captures, "language %s", lang)
	}
}

func TestCapturesSortedByOffset(t *testing.T) {
	engine := NewEngine()

	source := `import zlib
import abc
from . import x
`
	captures, err := engine.ImportCaptures(LanguagePython, []byte(source))
	require.NoError(t, err)

	for i := 1; i < len(captures); i++ {
		assert.LessOrEqual(t, captures[i-1].Start, captures[i].Start, "captures must be ordered by start byte")
	}
}

func TestUnknownLanguageUnavailable(t *testing.T) {
	engine := NewEngine()

	_, err := engine.ImportCaptures(Language("cobol"), []byte("IDENTIFICATION DIVISION."))
	require.Error(t, err)

	var unavailable *lixerrors.LanguageUnavailableError
	require.ErrorAs(t, err, &unavailable)
	assert.Equal(t, "cobol", unavailable.Language)

	// The failure is recorded and every later call keeps failing.
	_, err = engine.ImportCaptures(Language("cobol"), nil)
	require.Error(t, err)
	require.ErrorAs(t, err, &unavailable)

	assert.False(t, engine.Available(Language("cobol")))
}

func TestAvailableKnownLanguages(t *testing.T) {
	engine := NewEngine()

	for _, lang := range Languages() {
		assert.True(t, engine.Available(lang), "language %s should be available", lang)
	}
}

func TestConcurrentImportCaptures(t *testing.T) {
	engine := NewEngine()
	source := []byte("import os\nimport numpy\n")

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			captures, err := engine.ImportCaptures(LanguagePython, source)
			assert.NoError(t, err)
			assert.Equal(t, []string{"os", "numpy"}, captureTexts(captures, "module"))
		}()
	}
	wg.Wait()
}

func TestSharedEngineSingleton(t *testing.T) {
	assert.Same(t, Shared(), Shared())
}

func BenchmarkPythonImportCaptures(b *testing.B) {
	engine := NewEngine()
	source := []byte(`import os
import sys
import numpy as np
from collections import OrderedDict
from .utils import helper
`)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, err := engine.ImportCaptures(LanguagePython, source)
		if err != nil {
			b.Fatal(err)
		}
	}
}
