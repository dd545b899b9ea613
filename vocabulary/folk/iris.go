package folk

// Namespace is the base IRI for all rft ontology terms.
const Namespace = "https://folkgraph.c360.dev/ontology/#"

// EntityNamespace is the base IRI under which entity instances are minted.
const EntityNamespace = "https://folkgraph.c360.dev/rdf/"

// Standard namespaces bound by every export.
const (
	NSRdf      = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	NSRdfs     = "http://www.w3.org/2000/01/rdf-schema#"
	NSXsd      = "http://www.w3.org/2001/XMLSchema#"
	NSSkos     = "http://www.w3.org/2004/02/skos/core#"
	NSDcterms  = "http://purl.org/dc/terms/"
	NSDcmitype = "http://purl.org/dc/dcmitype/"
	NSProv     = "http://www.w3.org/ns/prov#"
	NSFoaf     = "http://xmlns.com/foaf/0.1/"
	NSCrm      = "http://www.cidoc-crm.org/cidoc-crm/"
	NSDcat     = "http://www.w3.org/ns/dcat#"
)

// Class IRIs of the rft ontology.
const (
	// ClassTale represents one corpus record, the atomic text unit.
	// Always asserted alongside crm:E33_Linguistic_Object.
	ClassTale = Namespace + "Tale"

	// ClassNarrator marks a person who told at least one tale.
	// A role fact, not a partition: a person may also be a Collector.
	ClassNarrator = Namespace + "Narrator"

	// ClassCollector marks a person who recorded at least one tale.
	ClassCollector = Namespace + "Collector"

	// ClassTaleType represents one entry of the ATU classification scheme.
	// Asserted alongside skos:Concept.
	ClassTaleType = Namespace + "TaleType"

	// ClassModel represents a trained classifier artifact.
	ClassModel = Namespace + "Model"

	// ClassInputText represents the content-hashed snapshot of one input
	// text. The text itself is never embedded, only its hash.
	ClassInputText = Namespace + "InputText"

	// ClassClassificationEvent represents one inference invocation.
	// Asserted alongside prov:Activity and crm:E7_Activity.
	ClassClassificationEvent = Namespace + "ClassificationEvent"

	// ClassClassificationResult represents the ranked output of one run.
	ClassClassificationResult = Namespace + "ClassificationResult"

	// ClassClassificationCandidate represents one ranked suggestion.
	ClassClassificationCandidate = Namespace + "ClassificationCandidate"

	// ClassExpertReview represents a human override activity attached to
	// a classification result.
	ClassExpertReview = Namespace + "ExpertReview"
)

// Object property IRIs.
const (
	// PropHasCandidate links a result to its ranked candidates.
	// Domain: ClassClassificationResult, Range: ClassClassificationCandidate
	PropHasCandidate = Namespace + "hasCandidate"

	// PropPredictedTaleType links a candidate to the tale type it suggests.
	PropPredictedTaleType = Namespace + "predictedTaleType"

	// PropPrimaryATU is the decision's primary tale type.
	PropPrimaryATU = Namespace + "primaryATU"

	// PropModelPrimaryATU preserves the model's original primary tale type,
	// untouched by any later override.
	PropModelPrimaryATU = Namespace + "modelPrimaryATU"

	// PropFinalATU is the tale type after an expert override, when one exists.
	PropFinalATU = Namespace + "finalATU"

	// PropCoTaleType links a result to a near-tie secondary tale type.
	PropCoTaleType = Namespace + "coTaleType"

	// PropForTale links run, result and snapshot nodes to their tale.
	PropForTale = Namespace + "forTale"

	// PropUsedModel links a classification event to the model artifact.
	PropUsedModel = Namespace + "usedModel"
)

// Data property IRIs.
const (
	// PropRank is the 1-based candidate rank. Typed xsd:integer.
	PropRank = Namespace + "rank"

	// PropConfidenceScore is the candidate score in [0,1]. Typed xsd:decimal.
	PropConfidenceScore = Namespace + "confidenceScore"

	// PropConfidenceBand is the binary decision band.
	// Values: "high", "else"
	PropConfidenceBand = Namespace + "confidenceBand"

	// PropDeltaTop12 is the score gap between the top two candidates.
	PropDeltaTop12 = Namespace + "deltaTop12"

	// PropTaleStatus is the workflow status of a result.
	// Values: "accept", "review", "by expert"
	PropTaleStatus = Namespace + "taleStatus"

	// PropFinalDecisionSource records who made the final call.
	// Values: "model", "expert"
	PropFinalDecisionSource = Namespace + "finalDecisionSource"

	// PropFinalExpertNote is the reviewer's free-text note.
	PropFinalExpertNote = Namespace + "finalExpertNote"

	// PropFinalSavedAt is when the override was recorded. Typed xsd:dateTime.
	PropFinalSavedAt = Namespace + "finalSavedAt"

	// PropSourceVersion is the content hash of the input text,
	// "sha256:<hex>" over whitespace-normalized text.
	PropSourceVersion = Namespace + "sourceVersion"

	// PropModelSha is the training commit hash of the model artifact.
	PropModelSha = Namespace + "modelSha"

	// PropModelTag is the human-readable model version tag.
	PropModelTag = Namespace + "modelTag"

	// PropTrainedAt is the model training timestamp. Typed xsd:dateTime.
	PropTrainedAt = Namespace + "trainedAt"

	// PropTask names the modelling task, e.g. "atu-classification".
	PropTask = Namespace + "task"

	// PropTextCols lists the table columns the model consumed.
	PropTextCols = Namespace + "textCols"

	// PropBirthYear is a person's birth year. Typed xsd:gYear.
	PropBirthYear = Namespace + "birthYear"

	// PropAge is a person's age at recording time. Typed xsd:integer.
	PropAge = Namespace + "age"

	// PropPlaceLabel is the display label of a tale's recording place.
	PropPlaceLabel = Namespace + "placeLabel"
)

// Entity path segments used when minting instance IRIs.
const (
	SegmentTale       = "tale"
	SegmentVolume     = "volume"
	SegmentCollection = "collection"
	SegmentPerson     = "person"
	SegmentPlace      = "place"
	SegmentTaleType   = "taleType/atu"
	SegmentModel      = "model"
	SegmentEvent      = "classificationEvent"
	SegmentResult     = "classificationResult"
	SegmentInputText  = "inputText"
	SegmentBiblio     = "biblio"
	SegmentDataset    = "dataset"
)

// Frequently referenced external class IRIs.
const (
	ClassLinguisticObject      = NSCrm + "E33_Linguistic_Object"
	ClassActivity              = NSCrm + "E7_Activity"
	ClassPerson                = NSCrm + "E21_Person"
	ClassBibliographicResource = NSDcterms + "BibliographicResource"
	ClassCollection            = NSDcmitype + "Collection"
)
