package provenance

import (
	"strconv"
	"time"

	"github.com/c360studio/folkgraph/graph"
	"github.com/c360studio/folkgraph/identity"
	"github.com/c360studio/folkgraph/vocabulary/folk"
)

// Export builds the provenance subgraph for one classification call:
// the result with its ranked candidates, the classification event, the
// model and input snapshot the event used, and a stub node for the tale
// itself. When a review is present its override is applied to the
// exported result and an expert review activity is added under the
// event IRI plus "/hitl".
func Export(run Run, model Model, res *Result, rev *Review) (*graph.Graph, error) {
	if rev != nil && identity.CleanWS(rev.Code) != "" {
		r := *res
		ApplyReview(&r, *rev)
		res = &r
	} else {
		rev = nil
	}

	taleIRI, err := mint(identity.KindTale, run.TaleID)
	if err != nil {
		return nil, err
	}
	modelIRI, err := mint(identity.KindModel, model.Identity())
	if err != nil {
		return nil, err
	}
	ts := identity.TimestampSlug(run.CreatedAt)
	eventIRI, err := mintParts(identity.KindRun, run.TaleID, ts)
	if err != nil {
		return nil, err
	}
	resultIRI, err := mintParts(identity.KindResult, run.TaleID, ts)
	if err != nil {
		return nil, err
	}
	inputIRI, err := mintParts(identity.KindInputText, run.TaleID, ts)
	if err != nil {
		return nil, err
	}

	g := graph.New()

	g.Add(resultIRI, folk.PredType, graph.IRI(folk.ClassClassificationResult))
	g.Add(resultIRI, folk.PredType, graph.IRI(folk.ClassProvEntity))
	g.Add(resultIRI, folk.PredIdentifier, graph.PlainLiteral(run.TaleID))
	g.Add(resultIRI, folk.PropForTale, taleIRI)
	for _, c := range res.Candidates {
		candIRI := graph.IRI(string(resultIRI) + "/candidate/" + strconv.Itoa(c.Rank))
		g.Add(resultIRI, folk.PropHasCandidate, candIRI)
		addCandidate(g, candIRI, c)
	}
	g.Add(resultIRI, folk.PropTaleStatus, graph.PlainLiteral(res.Status))
	g.Add(resultIRI, folk.PropDeltaTop12, decimal(res.DeltaTop12))
	addConceptRef(g, resultIRI, folk.PropPrimaryATU, res.PrimaryCode)
	addConceptRef(g, resultIRI, folk.PropModelPrimaryATU, res.ModelPrimary)
	for _, code := range res.CoTypes {
		addConceptRef(g, resultIRI, folk.PropCoTaleType, code)
	}
	addConceptRef(g, resultIRI, folk.PropFinalATU, res.FinalCode)
	if res.FinalSource != "" {
		g.Add(resultIRI, folk.PropFinalDecisionSource, graph.PlainLiteral(res.FinalSource))
	}
	if res.FinalNote != "" {
		g.Add(resultIRI, folk.PropFinalExpertNote, graph.PlainLiteral(res.FinalNote))
	}
	if !res.FinalSavedAt.IsZero() {
		g.Add(resultIRI, folk.PropFinalSavedAt, dateTime(res.FinalSavedAt))
	}

	g.Add(eventIRI, folk.PredType, graph.IRI(folk.ClassClassificationEvent))
	g.Add(eventIRI, folk.PredType, graph.IRI(folk.ClassProvActivity))
	g.Add(eventIRI, folk.PredType, graph.IRI(folk.ClassActivity))
	g.Add(eventIRI, folk.PredIdentifier, graph.PlainLiteral(run.ID))
	g.Add(eventIRI, folk.PredLabel, graph.PlainLiteral("ATU classification for "+run.TaleID))
	g.Add(eventIRI, folk.PredGeneratedAtTime, dateTime(run.CreatedAt))
	g.Add(eventIRI, folk.PropForTale, taleIRI)
	g.Add(eventIRI, folk.PropSourceVersion, graph.PlainLiteral(run.SourceVersion))
	g.Add(eventIRI, folk.PredUsed, modelIRI)
	g.Add(eventIRI, folk.PredUsed, inputIRI)
	g.Add(eventIRI, folk.PropUsedModel, modelIRI)
	g.Add(eventIRI, folk.PredGenerated, resultIRI)

	g.Add(modelIRI, folk.PredType, graph.IRI(folk.ClassModel))
	g.Add(modelIRI, folk.PredType, graph.IRI(folk.ClassProvEntity))
	g.Add(modelIRI, folk.PredIdentifier, graph.PlainLiteral(model.Identity()))
	if model.Name != "" {
		g.Add(modelIRI, folk.PredLabel, graph.PlainLiteral(model.Name))
	}
	if model.SHA != "" {
		g.Add(modelIRI, folk.PropModelSha, graph.PlainLiteral(model.SHA))
	}
	if model.VersionTag != "" {
		g.Add(modelIRI, folk.PropModelTag, graph.PlainLiteral(model.VersionTag))
	}
	if !model.TrainedAt.IsZero() {
		g.Add(modelIRI, folk.PropTrainedAt, dateTime(model.TrainedAt))
	}
	if model.Task != "" {
		g.Add(modelIRI, folk.PropTask, graph.PlainLiteral(model.Task))
	}
	if model.TextCols != "" {
		g.Add(modelIRI, folk.PropTextCols, graph.PlainLiteral(model.TextCols))
	}
	if model.Note != "" {
		g.Add(modelIRI, folk.PredDescription, graph.PlainLiteral(model.Note))
	}

	g.Add(inputIRI, folk.PredType, graph.IRI(folk.ClassInputText))
	g.Add(inputIRI, folk.PredType, graph.IRI(folk.ClassProvEntity))
	g.Add(inputIRI, folk.PredIdentifier, graph.PlainLiteral(run.SourceVersion))
	g.Add(inputIRI, folk.PredLabel, graph.PlainLiteral("Input text hash for "+run.TaleID))

	g.Add(taleIRI, folk.PredType, graph.IRI(folk.ClassTale))
	g.Add(taleIRI, folk.PredIdentifier, graph.PlainLiteral(run.TaleID))

	if rev != nil {
		agent := identity.CleanWS(rev.Agent)
		if agent == "" {
			agent = "expert_1"
		}
		agentIRI, err := mint(identity.KindPerson, agent)
		if err != nil {
			return nil, err
		}
		reviewIRI := graph.IRI(string(eventIRI) + "/hitl")
		g.Add(reviewIRI, folk.PredType, graph.IRI(folk.ClassExpertReview))
		g.Add(reviewIRI, folk.PredType, graph.IRI(folk.ClassProvActivity))
		g.Add(reviewIRI, folk.PredLabel, graph.PlainLiteral("Expert review for "+run.TaleID))
		g.Add(reviewIRI, folk.PredWasAssociatedWith, agentIRI)
		g.Add(reviewIRI, folk.PredGenerated, resultIRI)
		if !rev.SavedAt.IsZero() {
			g.Add(reviewIRI, folk.PredGeneratedAtTime, dateTime(rev.SavedAt))
		}
	}
	return g, nil
}

// addCandidate emits one ranked candidate node.
func addCandidate(g *graph.Graph, candIRI graph.IRI, c Candidate) {
	g.Add(candIRI, folk.PredType, graph.IRI(folk.ClassClassificationCandidate))
	g.Add(candIRI, folk.PropRank, graph.TypedLiteral(strconv.Itoa(c.Rank), graph.XSDInteger))
	if conceptIRI, err := mint(identity.KindConcept, c.Code); err == nil {
		g.Add(candIRI, folk.PropPredictedTaleType, conceptIRI)
	}
	if n := identity.Notation(c.Code); n != "" {
		g.Add(candIRI, folk.PredNotation, graph.PlainLiteral(n))
	}
	if c.Label != "" {
		g.Add(candIRI, folk.PredLabel, graph.LangLiteral(c.Label, "en"))
	}
	g.Add(candIRI, folk.PropConfidenceScore, decimal(c.Score))
	g.Add(candIRI, folk.PropConfidenceBand, graph.PlainLiteral(c.Band))
}

// addConceptRef links subject to the tale type concept minted from code,
// skipping empty codes.
func addConceptRef(g *graph.Graph, s, p graph.IRI, code string) {
	if identity.CleanWS(code) == "" {
		return
	}
	if conceptIRI, err := mint(identity.KindConcept, code); err == nil {
		g.Add(s, p, conceptIRI)
	}
}

func mint(kind identity.Kind, raw string) (graph.IRI, error) {
	id, err := identity.Mint(kind, raw)
	return graph.IRI(id), err
}

func mintParts(kind identity.Kind, parts ...string) (graph.IRI, error) {
	id, err := identity.MintParts(kind, parts...)
	return graph.IRI(id), err
}

func decimal(f float64) graph.Literal {
	return graph.TypedLiteral(strconv.FormatFloat(f, 'f', -1, 64), graph.XSDDecimal)
}

func dateTime(t time.Time) graph.Literal {
	s := t.UTC().Truncate(time.Second).Format(time.RFC3339)
	return graph.TypedLiteral(s, graph.XSDDateTime)
}
