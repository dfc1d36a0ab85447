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


// Package search provides hybrid retrieval, exact post-filtering, and
// result grouping over the course corpus.
//
// The Searcher type fuses two independent relevance signals:
//   - Semantic similarity from vector embeddings
//   - Lexical BM25 scores over the Chinese-segmented course text
//
// Each signal is normalized to 0..1 and combined with runtime-mutable
// weights. A course strong in only one signal is kept, not dropped;
// absence from a signal contributes zero to the fused score.
//
// Retrieval is deliberately over-fetched when the question carries
// structural constraints, because Filter discards most candidates
// afterwards. Filter applies the parsed constraints exactly against
// course metadata; Group merges surviving sections of the same course
// for presentation.
package search
