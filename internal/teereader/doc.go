// Copyright (c) matt-FFFFFF 2025. All rights reserved.
// SPDX-License-Identifier: MIT

// Package teereader provides a read cursor over a file that another writer is still
// appending to. Everything consumed through the cursor is kept in a history buffer so
// the complete output stays available after it has been streamed.
package teereader
