package domain

// InsufficientContextAnswer is returned, without calling the generation
// provider, when retrieval finds nothing to ground an answer in.
const InsufficientContextAnswer = "I don't have enough information to answer your question. " +
	"Please try adding relevant documents to the knowledge base or rephrase your question."

// InsufficientContextReasoning is the reasoning trace paired with
// InsufficientContextAnswer.
const InsufficientContextReasoning = "No relevant documents found in the knowledge base."

// DegradedAnswer is returned when retrieval found grounding but the
// generation provider failed after retries. The citations still list
// what retrieval found.
const DegradedAnswer = "I found relevant sources but could not generate an answer right now. " +
	"Please try again shortly."

// DegradedReasoning is the reasoning trace paired with DegradedAnswer.
const DegradedReasoning = "The generation provider was unavailable."

// QueryOptions configures a retrieval-and-grounding request.
type QueryOptions struct {
	// TopK is the maximum number of candidate chunks to retrieve.
	// Zero means the configured default.
	TopK int

	// SourceIDs scopes retrieval to specific sources. Empty means all.
	SourceIDs []string

	// MinScore drops candidates below this similarity. Negative means
	// the configured default.
	MinScore float64
}

// Citation is one numbered reference in a generated answer. Multiple
// retrieved chunks from the same source collapse into a single citation;
// numbers are assigned in order of first appearance in the ranked
// candidate list and are stable within one answer only.
type Citation struct {
	// Number is the 1-based citation number used in the answer text.
	Number int

	// SourceID is the cited source.
	SourceID string

	// DisplayName is the source's human-readable name.
	DisplayName string

	// Kind is the source's origin kind.
	Kind OriginKind

	// Positions lists the chunk ordinals that contributed, in rank order.
	Positions []int

	// BestScore is the highest similarity among the contributing chunks.
	BestScore float64
}

// Answer is the result of a grounded query.
type Answer struct {
	// Answer is the final answer text.
	Answer string

	// Reasoning is the intermediate chain-of-thought trace, when the
	// generation provider produced one. May be empty.
	Reasoning string

	// Citations maps bracketed numbers in the answer to sources,
	// ordered by citation number.
	Citations []Citation
}
