package folk

// RDF and RDFS terms.
const (
	// PredType is rdf:type.
	PredType = NSRdf + "type"

	// PredLabel is rdfs:label.
	PredLabel = NSRdfs + "label"

	// PredComment is rdfs:comment.
	PredComment = NSRdfs + "comment"

	// PredSeeAlso is rdfs:seeAlso.
	PredSeeAlso = NSRdfs + "seeAlso"
)

// Dublin Core terms used across the corpus graphs.
const (
	PredIdentifier            = NSDcterms + "identifier"
	PredTitle                 = NSDcterms + "title"
	PredDescription           = NSDcterms + "description"
	PredIsPartOf              = NSDcterms + "isPartOf"
	PredHasPart               = NSDcterms + "hasPart"
	PredCreator               = NSDcterms + "creator"
	PredContributor           = NSDcterms + "contributor"
	PredSubject               = NSDcterms + "subject"
	PredCreated               = NSDcterms + "created"
	PredAccessRights          = NSDcterms + "accessRights"
	PredRights                = NSDcterms + "rights"
	PredSpatial               = NSDcterms + "spatial"
	PredSource                = NSDcterms + "source"
	PredFormat                = NSDcterms + "format"
	PredLanguage              = NSDcterms + "language"
	PredLicense               = NSDcterms + "license"
	PredBibliographicCitation = NSDcterms + "bibliographicCitation"
)

// SKOS terms for the tale type scheme.
const (
	ClassSkosConcept   = NSSkos + "Concept"
	ClassConceptScheme = NSSkos + "ConceptScheme"
	PredInScheme       = NSSkos + "inScheme"
	PredNotation       = NSSkos + "notation"
	PredPrefLabel      = NSSkos + "prefLabel"
	PredDefinition     = NSSkos + "definition"
)

// PROV-O terms for agents and classification provenance.
const (
	ClassProvEntity   = NSProv + "Entity"
	ClassProvActivity = NSProv + "Activity"
	ClassProvAgent    = NSProv + "Agent"

	PredUsed              = NSProv + "used"
	PredGenerated         = NSProv + "generated"
	PredGeneratedAtTime   = NSProv + "generatedAtTime"
	PredWasAssociatedWith = NSProv + "wasAssociatedWith"
	PredWasDerivedFrom    = NSProv + "wasDerivedFrom"
)

// FOAF terms for persons and catalogue pages.
const (
	ClassFoafPerson = NSFoaf + "Person"
	PredFoafName    = NSFoaf + "name"
	PredFoafPage    = NSFoaf + "page"
)

// DCAT terms for the dataset description.
const (
	ClassDataset      = NSDcat + "Dataset"
	ClassDistribution = NSDcat + "Distribution"
	PredDistribution  = NSDcat + "distribution"
	PredAccessURL     = NSDcat + "accessURL"
	PredDownloadURL   = NSDcat + "downloadURL"
	PredKeyword       = NSDcat + "keyword"
	PredTheme         = NSDcat + "theme"
	PredIssued        = NSDcterms + "issued"
)
