package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
	"github.com/openai/openai-go/responses"
	"github.com/openai/openai-go/shared"
	"github.com/openai/openai-go/shared/constant"
	"github.com/rs/zerolog"
)

// ExtractedLineItem is one line item pulled out of a purchase order.
// Amounts are exact decimal strings so nothing is lost to float parsing.
type ExtractedLineItem struct {
	Description string `json:"description" jsonschema_description:"Item description as written in the document"`
	Quantity    string `json:"quantity" jsonschema_description:"Quantity as an exact decimal string (e.g. \"2\")"`
	UnitPrice   string `json:"unit_price" jsonschema_description:"Unit price as an exact decimal string (e.g. \"1500000.00\")"`
}

// ExtractedInvoice is the structured result of extracting invoice data
// from purchase order text.
type ExtractedInvoice struct {
	CustomerName string              `json:"customer_name" jsonschema_description:"Name of the customer the invoice is billed to"`
	Date         string              `json:"date" jsonschema_description:"Document date in YYYY-MM-DD format, empty if not present"`
	Currency     string              `json:"currency" jsonschema_description:"ISO currency code (e.g. KRW, USD). Default KRW if unstated."`
	Items        []ExtractedLineItem `json:"items" jsonschema_description:"Line items found in the document"`
	Notes        string              `json:"notes" jsonschema_description:"Payment terms, delivery notes or other remarks worth keeping"`
	Confidence   float64             `json:"confidence" jsonschema_description:"Extraction confidence score between 0.0 and 1.0"`
}

// Extractor turns raw purchase order text into a structured invoice draft
// using OpenAI structured output. It is a thin adapter: all validation and
// persistence decisions stay in the core.
type Extractor struct {
	client *openai.Client
	log    zerolog.Logger
}

func NewExtractor(apiKey string, log zerolog.Logger) *Extractor {
	client := openai.NewClient(option.WithAPIKey(apiKey))
	return &Extractor{client: &client, log: log.With().Str("component", "extractor").Logger()}
}

// ExtractInvoice sends the document text to the model and returns the
// structured extraction. The confidence score is clamped to [0.0, 1.0].
func (x *Extractor) ExtractInvoice(ctx context.Context, documentText string) (*ExtractedInvoice, error) {
	prompt := fmt.Sprintf(`You extract invoice data from purchase order documents.
Rules:
1. Copy customer name, dates and amounts exactly as written.
2. Amounts must be exact decimal strings (e.g. "3300000.00").
3. Skip table rows that are not real line items (headers, totals).
4. Provide a confidence score (0.0-1.0) for the extraction as a whole.

Document:
%s`, documentText)

	schemaJSON, err := json.Marshal(generateSchema())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	var schemaMap map[string]any
	if err := json.Unmarshal(schemaJSON, &schemaMap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal schema to map: %w", err)
	}

	extractionID := uuid.NewString()
	x.log.Debug().Str("extraction_id", extractionID).Int("document_bytes", len(documentText)).Msg("requesting extraction")

	params := responses.ResponseNewParams{
		Model: shared.ResponsesModel(shared.ChatModelGPT4o),
		Input: responses.ResponseNewParamsInputUnion{
			OfString: param.NewOpt(prompt),
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Type:        constant.JSONSchema("json_schema"),
					Name:        "invoice_extraction",
					Strict:      param.NewOpt(true),
					Schema:      schemaMap,
					Description: param.NewOpt("Invoice data extracted from a purchase order document"),
				},
			},
		},
	}

	resp, err := x.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("openai responses error: %w", err)
	}

	content := resp.OutputText()
	if content == "" {
		return nil, fmt.Errorf("empty response content")
	}

	var extracted ExtractedInvoice
	if err := json.Unmarshal([]byte(content), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse extraction: %w", err)
	}

	extracted.normalize()
	x.log.Info().Str("extraction_id", extractionID).
		Str("customer", extracted.CustomerName).
		Int("items", len(extracted.Items)).
		Float64("confidence", extracted.Confidence).
		Msg("extraction complete")
	return &extracted, nil
}

func (e *ExtractedInvoice) normalize() {
	e.CustomerName = strings.TrimSpace(e.CustomerName)
	e.Currency = strings.ToUpper(strings.TrimSpace(e.Currency))
	if e.Currency == "" {
		e.Currency = "KRW"
	}
	if e.Confidence < 0 {
		e.Confidence = 0
	}
	if e.Confidence > 1 {
		e.Confidence = 1
	}
}

func generateSchema() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v ExtractedInvoice
	return reflector.Reflect(v)
}
