package classifier

import (
	"context"
	"log"

	"leafstage/imaging"
	"leafstage/oracle"
)

// Remote delegates classification to a vision oracle. It makes at most one
// oracle call per Classify and never retries.
type Remote struct {
	oracle oracle.Oracle
	prompt string
}

func NewRemote(o oracle.Oracle) *Remote {
	return &Remote{oracle: o, prompt: OraclePrompt}
}

func (r *Remote) Strategy() Strategy { return StrategyRemote }

func (r *Remote) Classify(ctx context.Context, in Input) (*Classification, error) {
	data, mime := in.Data, in.MIMEType
	if len(data) == 0 {
		if in.Image == nil {
			return nil, newError(KindImageDecode, "no image data")
		}
		encoded, err := imaging.EncodeJPEG(in.Image)
		if err != nil {
			return nil, &ClassificationError{Kind: KindImageDecode, Err: err}
		}
		data, mime = encoded, "image/jpeg"
	}
	if mime == "" {
		mime = imaging.DetectMIME(data)
	}

	log.Printf("remote classifier: sending %d bytes (%s) to %s", len(data), mime, r.oracle.Model())
	raw, err := r.oracle.Describe(ctx, oracle.Request{Prompt: r.prompt, Image: data, MIMEType: mime})
	if err != nil {
		return nil, &ClassificationError{Kind: KindOracleUnavailable, Err: err}
	}

	c, err := ParseOracleResponse(raw)
	if err != nil {
		log.Printf("remote classifier: rejected oracle response: %v", err)
		return nil, err
	}
	return c, nil
}
