package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRustExternalCrates(t *testing.T) {
	source := `use serde::{Serialize, Deserialize};
use tokio::sync::mpsc;
use anyhow;
`
	libs, err := Rust(source)
	require.NoError(t, err)
	assertSets(t, libs, nil, []string{"anyhow", "serde", "tokio"}, nil)
}

func TestRustCratePathsAreFirstParty(t *testing.T) {
	source := `use crate::utils::helpers;
use self::config::Settings;
use super::models;
`
	libs, err := Rust(source)
	require.NoError(t, err)
	assertSets(t, libs, nil, nil, []string{"config", "models", "utils"})
}

func TestRustBareKeywordContributesNothing(t *testing.T) {
	libs, err := Rust("use crate;\n")
	require.NoError(t, err)
	assert.True(t, libs.Empty())
}

func TestRustRenameCutFromSegment(t *testing.T) {
	libs, err := Rust("use std as standard;\nuse serde_json as json;\n")
	require.NoError(t, err)
	assertSets(t, libs, []string{"std"}, []string{"serde_json"}, nil)
}

func TestRustStdlibRegistry(t *testing.T) {
	libs, err := Rust("use std::collections::HashMap;\nuse core::fmt;\nuse alloc::vec::Vec;\n")
	require.NoError(t, err)
	assertSets(t, libs, []string{"alloc", "core", "std"}, nil, nil)
}

func TestRustPubUse(t *testing.T) {
	libs, err := Rust("pub use crate::prelude::Result;\npub use thiserror::Error;\n")
	require.NoError(t, err)
	assertSets(t, libs, nil, []string{"thiserror"}, []string{"prelude"})
}

func TestRustKeywordBraceListContributesNothing(t *testing.T) {
	// A brace list right after the keyword leaves no single module name.
	libs, err := Rust("use crate::{utils, models};\n")
	require.NoError(t, err)
	assert.True(t, libs.Empty())
}

func TestRustTopLevelBraceListSkipped(t *testing.T) {
	libs, err := Rust("use {std::fs, serde::Serialize};\n")
	require.NoError(t, err)
	assert.True(t, libs.Empty())
}
