package server

import (
	"github.com/CosmWasm/tinyjson/jlexer"
	"github.com/CosmWasm/tinyjson/jwriter"

	"padi_protocol/dao"
	"padi_protocol/storage"
)

// Request and response payloads with hand-written tinyjson codecs. Requests
// only decode and responses only encode, so each type carries exactly the
// direction the API needs.

func decodeStringList(in *jlexer.Lexer) []string {
	if in.IsNull() {
		in.Skip()
		return nil
	}
	var out []string
	in.Delim('[')
	for !in.IsDelim(']') {
		out = append(out, in.String())
		in.WantComma()
	}
	in.Delim(']')
	return out
}

func encodeStringList(out *jwriter.Writer, vals []string) {
	out.RawByte('[')
	for i, v := range vals {
		if i > 0 {
			out.RawByte(',')
		}
		out.String(v)
	}
	out.RawByte(']')
}

type mintMembershipRequest struct {
	Caller      string
	Member      string
	MetadataURI string
	Amount      int64
}

func (r *mintMembershipRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "caller":
			r.Caller = in.String()
		case "member":
			r.Member = in.String()
		case "metadataUri":
			r.MetadataURI = in.String()
		case "amount":
			r.Amount = in.Int64()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

type representativeRequest struct {
	Caller         string
	Representative string
}

func (r *representativeRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "caller":
			r.Caller = in.String()
		case "representative":
			r.Representative = in.String()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

type addCaseRequest struct {
	Caller      string
	Lawyer      string
	Member      string
	Description string
	Reward      int64
	Emergency   bool
}

func (r *addCaseRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "caller":
			r.Caller = in.String()
		case "lawyer":
			r.Lawyer = in.String()
		case "member":
			r.Member = in.String()
		case "description":
			r.Description = in.String()
		case "reward":
			r.Reward = in.Int64()
		case "emergency":
			r.Emergency = in.Bool()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

type resolveCaseRequest struct {
	Caller string
	Lawyer string
}

func (r *resolveCaseRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "caller":
			r.Caller = in.String()
		case "lawyer":
			r.Lawyer = in.String()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

type lawyerRequest struct {
	Caller     string
	Lawyer     string
	ProfileURI string
}

func (r *lawyerRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "caller":
			r.Caller = in.String()
		case "lawyer":
			r.Lawyer = in.String()
		case "profileUri":
			r.ProfileURI = in.String()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

type callerRequest struct {
	Caller string
}

func (r *callerRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "caller":
			r.Caller = in.String()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

type emergencyRewardRequest struct {
	Caller string
	Lawyer string
	Amount int64
}

func (r *emergencyRewardRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "caller":
			r.Caller = in.String()
		case "lawyer":
			r.Lawyer = in.String()
		case "amount":
			r.Amount = in.Int64()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

type cancelCaseRequest struct {
	Caller   string
	RefundTo string
}

func (r *cancelCaseRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "caller":
			r.Caller = in.String()
		case "refundTo":
			r.RefundTo = in.String()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

type sweepRequest struct {
	Caller      string
	NewContract string
}

func (r *sweepRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "caller":
			r.Caller = in.String()
		case "newContract":
			r.NewContract = in.String()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

type incidentRequest struct {
	Caller      string
	Description string
	MediaURIs   []string
}

func (r *incidentRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "caller":
			r.Caller = in.String()
		case "description":
			r.Description = in.String()
		case "mediaUris":
			r.MediaURIs = decodeStringList(in)
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

type corroborationRequest struct {
	Caller    string
	Comment   string
	MediaURIs []string
}

func (r *corroborationRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "caller":
			r.Caller = in.String()
		case "comment":
			r.Comment = in.String()
		case "mediaUris":
			r.MediaURIs = decodeStringList(in)
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

type incidentStatusRequest struct {
	Caller string
	Status string
}

func (r *incidentStatusRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "caller":
			r.Caller = in.String()
		case "status":
			r.Status = in.String()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

type relayRequest struct {
	Signer    string
	Method    string
	Payload   []byte
	Nonce     uint64
	Deadline  int64
	Signature []byte
}

func (r *relayRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "signer":
			r.Signer = in.String()
		case "method":
			r.Method = in.String()
		case "payload":
			r.Payload = in.Bytes()
		case "nonce":
			r.Nonce = in.Uint64()
		case "deadline":
			r.Deadline = in.Int64()
		case "signature":
			r.Signature = in.Bytes()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

type proposeRequest struct {
	Caller      string
	Targets     []string
	Values      []int64
	Calldatas   [][]byte
	Description string
}

func (r *proposeRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "caller":
			r.Caller = in.String()
		case "targets":
			r.Targets = decodeStringList(in)
		case "values":
			if in.IsNull() {
				in.Skip()
				break
			}
			in.Delim('[')
			for !in.IsDelim(']') {
				r.Values = append(r.Values, in.Int64())
				in.WantComma()
			}
			in.Delim(']')
		case "calldatas":
			if in.IsNull() {
				in.Skip()
				break
			}
			in.Delim('[')
			for !in.IsDelim(']') {
				r.Calldatas = append(r.Calldatas, in.Bytes())
				in.WantComma()
			}
			in.Delim(']')
		case "description":
			r.Description = in.String()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

type voteRequest struct {
	Caller  string
	Support bool
}

func (r *voteRequest) UnmarshalTinyJSON(in *jlexer.Lexer) {
	in.Delim('{')
	for !in.IsDelim('}') {
		key := in.UnsafeFieldName(false)
		in.WantColon()
		switch key {
		case "caller":
			r.Caller = in.String()
		case "support":
			r.Support = in.Bool()
		default:
			in.SkipRecursive()
		}
		in.WantComma()
	}
	in.Delim('}')
}

type errorResponse struct {
	Error string
}

func (r errorResponse) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"error":`)
	out.String(r.Error)
	out.RawByte('}')
}

type idResponse struct {
	ID uint64
}

func (r idResponse) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"id":`)
	out.Uint64(r.ID)
	out.RawByte('}')
}

type statusResponse struct {
	Status string
}

func (r statusResponse) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"status":`)
	out.String(r.Status)
	out.RawByte('}')
}

type memberResponse struct {
	Member *storage.Member
}

func (r memberResponse) MarshalTinyJSON(out *jwriter.Writer) {
	m := r.Member
	out.RawString(`{"wallet":`)
	out.String(m.Wallet.String())
	out.RawString(`,"representative":`)
	out.String(m.Representative.String())
	out.RawString(`,"membershipTokenId":`)
	out.Uint64(m.MembershipTokenID)
	out.RawString(`,"metadataUri":`)
	out.String(m.MetadataURI)
	out.RawString(`,"joinDate":`)
	out.Int64(m.JoinDate)
	out.RawString(`,"totalCases":`)
	out.Uint64(m.TotalCases)
	out.RawString(`,"active":`)
	out.Bool(m.Active)
	out.RawByte('}')
}

type lawyerResponse struct {
	Lawyer *storage.Lawyer
	Open   []uint64
	Closed []uint64
}

func encodeIDList(out *jwriter.Writer, ids []uint64) {
	out.RawByte('[')
	for i, id := range ids {
		if i > 0 {
			out.RawByte(',')
		}
		out.Uint64(id)
	}
	out.RawByte(']')
}

func (r lawyerResponse) MarshalTinyJSON(out *jwriter.Writer) {
	l := r.Lawyer
	out.RawString(`{"wallet":`)
	out.String(l.Wallet.String())
	out.RawString(`,"caseIds":`)
	encodeIDList(out, l.CaseIDs)
	out.RawString(`,"profileUri":`)
	out.String(l.ProfileURI)
	out.RawString(`,"joinDate":`)
	out.Int64(l.JoinDate)
	out.RawString(`,"totalRewards":`)
	out.Int64(l.TotalRewards)
	out.RawString(`,"active":`)
	out.Bool(l.Active)
	out.RawString(`,"openCases":`)
	encodeIDList(out, r.Open)
	out.RawString(`,"closedCases":`)
	encodeIDList(out, r.Closed)
	out.RawByte('}')
}

type caseResponse struct {
	Case *storage.Case
}

func (r caseResponse) MarshalTinyJSON(out *jwriter.Writer) {
	c := r.Case
	out.RawString(`{"id":`)
	out.Uint64(c.ID)
	out.RawString(`,"member":`)
	out.String(c.Member.String())
	out.RawString(`,"lawyer":`)
	out.String(c.Lawyer.String())
	out.RawString(`,"description":`)
	out.String(c.DescriptionMetadata)
	out.RawString(`,"creationDate":`)
	out.Int64(c.CreationDate)
	out.RawString(`,"resolutionDate":`)
	out.Int64(c.ResolutionDate)
	out.RawString(`,"resolved":`)
	out.Bool(c.Resolved)
	out.RawString(`,"rewardAmount":`)
	out.Int64(c.RewardAmount)
	out.RawByte('}')
}

type incidentResponse struct {
	Incident *storage.Incident
}

func (r incidentResponse) MarshalTinyJSON(out *jwriter.Writer) {
	in := r.Incident
	out.RawString(`{"id":`)
	out.Uint64(in.ID)
	out.RawString(`,"reporter":`)
	out.String(in.Reporter.String())
	out.RawString(`,"description":`)
	out.String(in.DescriptionMetadata)
	out.RawString(`,"timestamp":`)
	out.Int64(in.Timestamp)
	out.RawString(`,"status":`)
	out.String(in.Status.String())
	out.RawString(`,"verifiedBy":`)
	out.String(in.VerifiedBy.String())
	out.RawString(`,"mediaUris":`)
	encodeStringList(out, in.MediaURIs)
	out.RawString(`,"corroborators":`)
	out.RawByte('[')
	for i := range in.Corroborators {
		if i > 0 {
			out.RawByte(',')
		}
		c := &in.Corroborators[i]
		out.RawString(`{"member":`)
		out.String(c.Member.String())
		out.RawString(`,"timestamp":`)
		out.Int64(c.Timestamp)
		out.RawString(`,"comment":`)
		out.String(c.Comment)
		out.RawString(`,"mediaUris":`)
		encodeStringList(out, c.MediaURIs)
		out.RawByte('}')
	}
	out.RawByte(']')
	out.RawByte('}')
}

type proposalResponse struct {
	Proposal *dao.Proposal
	State    dao.ProposalState
}

func (r proposalResponse) MarshalTinyJSON(out *jwriter.Writer) {
	p := r.Proposal
	out.RawString(`{"id":`)
	out.Uint64(p.ID)
	out.RawString(`,"proposer":`)
	out.String(p.Proposer.String())
	out.RawString(`,"eta":`)
	out.Int64(p.ETA)
	out.RawString(`,"targets":`)
	out.RawByte('[')
	for i, tgt := range p.Targets {
		if i > 0 {
			out.RawByte(',')
		}
		out.String(tgt.String())
	}
	out.RawByte(']')
	out.RawString(`,"values":`)
	out.RawByte('[')
	for i, v := range p.Values {
		if i > 0 {
			out.RawByte(',')
		}
		out.Int64(v)
	}
	out.RawByte(']')
	out.RawString(`,"calldatas":`)
	out.RawByte('[')
	for i, cd := range p.Calldatas {
		if i > 0 {
			out.RawByte(',')
		}
		out.Base64Bytes(cd)
	}
	out.RawByte(']')
	out.RawString(`,"startBlock":`)
	out.Uint64(p.StartBlock)
	out.RawString(`,"endBlock":`)
	out.Uint64(p.EndBlock)
	out.RawString(`,"description":`)
	out.String(p.Description)
	out.RawString(`,"forVotes":`)
	out.Int64(p.ForVotes)
	out.RawString(`,"againstVotes":`)
	out.Int64(p.AgainstVotes)
	out.RawString(`,"state":`)
	out.String(r.State.String())
	out.RawByte('}')
}

type receiptResponse struct {
	Receipt *dao.Receipt
}

func (r receiptResponse) MarshalTinyJSON(out *jwriter.Writer) {
	out.RawString(`{"hasVoted":`)
	out.Bool(r.Receipt.HasVoted)
	out.RawString(`,"support":`)
	out.Bool(r.Receipt.Support)
	out.RawString(`,"votes":`)
	out.Int64(r.Receipt.Votes)
	out.RawByte('}')
}
