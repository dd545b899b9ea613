// Package folk defines the ontology vocabulary for the folklore corpus
// knowledge graph: the project namespace, the class and property IRIs of
// the rft ontology, and the standard W3C/Dublin Core namespaces every
// export binds.
//
// The package holds constants only. Identifier construction lives in the
// identity package; serialization in the export package.
package folk
