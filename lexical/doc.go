// Copyright 2025 Poiesic Systems
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

// Package lexical implements Okapi BM25 keyword retrieval over
// Chinese-segmented course text.
//
// Course descriptions mix Chinese and English, so documents and queries
// are tokenized with a dictionary-based Chinese segmenter rather than
// split on whitespace. Whitespace splitting would treat an entire
// Chinese sentence as a single token and match nothing.
//
// An Index is immutable once built. Rebuilding the corpus produces a
// new Index which replaces the old one wholesale; this keeps scoring
// deterministic for a given corpus and query.
package lexical
