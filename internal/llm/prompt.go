package llm

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/muscatlabs/qanun/internal/index"
)

const answerPreamble = `You are a legal assistant specializing in Omani law.
Answer the user's question based on the provided legal context. If the answer cannot be found in the context, politely state that you don't have that information rather than making up an answer.

Always cite the specific law, article, or section your information comes from. Format citations as [Law Name, Article X].`

// buildAnswerPrompt assembles the question-answering prompt with retrieved
// provisions as context.
func buildAnswerPrompt(question string, hits []index.Result) string {
	var sb strings.Builder
	sb.WriteString(answerPreamble)
	sb.WriteString("\n\nQUESTION: ")
	sb.WriteString(question)
	sb.WriteString("\nCONTEXT:\n")
	writeContext(&sb, hits)
	sb.WriteString("\nANSWER:")
	return sb.String()
}

func writeContext(sb *strings.Builder, hits []index.Result) {
	if len(hits) == 0 {
		sb.WriteString("(no matching provisions found)\n")
		return
	}
	for _, h := range hits {
		sb.WriteString("---\n")
		sb.WriteString("Source: ")
		sb.WriteString(h.Doc)
		if len(h.Breadcrumb) > 0 {
			sb.WriteString(" > ")
			sb.WriteString(strings.Join(h.Breadcrumb, " > "))
		}
		sb.WriteString("\n")
		sb.WriteString(h.Text)
		sb.WriteString("\n")
	}
}

// buildCasePrompt assembles the structured case analysis prompt.
func buildCasePrompt(facts string, questions []string, hits []index.Result) string {
	if len(questions) == 0 {
		questions = []string{
			"What are the relevant legal principles?",
			"How do these principles apply to the facts?",
			"What is the likely outcome?",
		}
	}

	var sb strings.Builder
	sb.WriteString("You are a legal expert specializing in Omani law. Analyze the following case using a structured, step-by-step approach:\n\n")
	sb.WriteString("CASE FACTS:\n")
	sb.WriteString(facts)
	sb.WriteString("\n\n")
	if len(hits) > 0 {
		sb.WriteString("RELEVANT PROVISIONS:\n")
		writeContext(&sb, hits)
		sb.WriteString("\n")
	}
	sb.WriteString(`Provide a comprehensive legal analysis addressing the following:

1. ISSUE IDENTIFICATION:
   - Identify the key legal issues presented
   - Specify the areas of law involved

2. APPLICABLE LAW:
   - Identify relevant Omani statutes, regulations, and legal principles
   - Cite specific articles and provisions when possible

3. CASE ANALYSIS:
   - Apply the law to the facts in a step-by-step manner
   - Consider potential counterarguments
   - Evaluate the strength of different legal positions

4. CONCLUSION:
   - Provide a reasoned conclusion for each issue
   - Offer a final assessment of the case

5. RECOMMENDATIONS:
   - Suggest next steps or actions
   - Address risk mitigation strategies if applicable

SPECIFIC LEGAL QUESTIONS TO ADDRESS:
`)
	sb.WriteString(strings.Join(questions, ", "))
	sb.WriteString("\n\nFormat your analysis in a clear, structured manner with appropriate headings and subheadings.")
	return sb.String()
}

// buildComparePrompt assembles the provision comparison prompt.
func buildComparePrompt(provision1, provision2 string) string {
	var sb strings.Builder
	sb.WriteString("Compare these two legal provisions from Omani law:\n")
	sb.WriteString("Provision 1: ")
	sb.WriteString(provision1)
	sb.WriteString("\nProvision 2: ")
	sb.WriteString(provision2)
	sb.WriteString(`

In your comparison, please address:
1. The key similarities between the provisions
2. The notable differences or distinctions
3. The practical implications of these differences
4. Any relevant case law or precedents

Format your response clearly with headings for each section.`)
	return sb.String()
}

// Draft document kinds.
const (
	DraftLegalMemo    = "legal_memo"
	DraftLegalOpinion = "legal_opinion"
	DraftDemandLetter = "demand_letter"
	DraftContract     = "contract_agreement"
)

// DraftKinds lists the supported document types in stable order.
func DraftKinds() []string {
	kinds := []string{DraftLegalMemo, DraftLegalOpinion, DraftDemandLetter, DraftContract}
	sort.Strings(kinds)
	return kinds
}

func buildDraftPrompt(kind string, params map[string]string) (string, error) {
	switch kind {
	case DraftLegalMemo:
		return legalMemoPrompt(params), nil
	case DraftLegalOpinion:
		return legalOpinionPrompt(params), nil
	case DraftDemandLetter:
		return demandLetterPrompt(params), nil
	case DraftContract:
		return contractPrompt(params), nil
	default:
		return "", fmt.Errorf("unknown document type %q", kind)
	}
}

func param(params map[string]string, key, fallback string) string {
	if v, ok := params[key]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

func draftDate(params map[string]string) string {
	return param(params, "date", time.Now().Format("January 2, 2006"))
}

func legalMemoPrompt(p map[string]string) string {
	return fmt.Sprintf(`Write a professional legal memorandum based on the following parameters:

TO: %s
FROM: %s
DATE: %s
SUBJECT: %s

ISSUE:
%s

BRIEF ANSWER:
[Generate a concise summary of your conclusion]

FACTS:
%s

ANALYSIS:
[Provide a detailed legal analysis that discusses relevant Omani laws, regulations, and precedents. Include specific citations to legal authorities where appropriate. Analyze the strengths and weaknesses of the legal position.]

CONCLUSION:
[Summarize your findings and provide clear recommendations for next steps.]

Please draft a complete and professional legal memorandum following this structure. Use formal language appropriate for internal legal communication. Cite relevant Omani legal authorities where applicable.`,
		param(p, "recipient", "[Recipient]"),
		param(p, "sender", "[Sender]"),
		draftDate(p),
		param(p, "subject", "Legal Analysis"),
		param(p, "issue", "What legal issues must be addressed?"),
		param(p, "facts", "Relevant factual background of the case."),
	)
}

func legalOpinionPrompt(p map[string]string) string {
	return fmt.Sprintf(`Write a formal legal opinion letter based on the following parameters:

LETTERHEAD: %s
DATE: %s

ADDRESSEE:
%s

RE: %s

Dear %s,

INTRODUCTION:
[Introduce the purpose of this opinion letter and confirm your engagement to provide a legal opinion on the stated matter.]

FACTS AND BACKGROUND:
%s

LEGAL QUESTIONS PRESENTED:
%s

LEGAL ANALYSIS:
[Provide a comprehensive legal analysis that addresses each question presented. Reference specific provisions of Omani law. Explain your reasoning clearly.]

OPINION:
[State your legal opinion on each question, derived from your analysis. Be clear and unambiguous.]

QUALIFICATIONS AND LIMITATIONS:
[State any qualifications or limitations to your opinion, e.g., assumptions made, documents reviewed, scope limitations.]

CONCLUSION:
[Summarize your opinion and offer closing remarks.]

Sincerely,

%s
%s
%s

Please draft a complete and professional legal opinion letter following this structure. Use formal language appropriate for client communication. Cite relevant Omani legal authorities where applicable.`,
		param(p, "firm_name", "Legal Office"),
		draftDate(p),
		param(p, "addressee", "[Client Name and Address]"),
		param(p, "subject", "Legal Opinion on [Matter]"),
		param(p, "salutation", "Sir/Madam"),
		param(p, "facts", "Relevant factual background of the matter."),
		param(p, "questions", "What specific legal questions need to be addressed?"),
		param(p, "signature", "[Attorney Name]"),
		param(p, "title", "[Title]"),
		param(p, "firm_name", "[Firm Name]"),
	)
}

func demandLetterPrompt(p map[string]string) string {
	return fmt.Sprintf(`Write a formal demand letter based on the following parameters:

LETTERHEAD: %s
DATE: %s

ADDRESSEE:
%s

RE: %s

Dear %s,

INTRODUCTION:
[Introduce yourself and state that you represent the client. Briefly state the purpose of the letter.]

FACTUAL BACKGROUND:
%s

LEGAL BASIS:
[Explain the legal basis for the demand. Cite relevant provisions of Omani law that support your client's position.]

DEMAND:
%s

DEADLINE AND CONSEQUENCES:
[Specify the deadline for compliance. State the legal consequences that may follow if the recipient fails to comply with the demand.]

CLOSING:
[Include standard closing language, reserving all legal rights and remedies. Invite contact to discuss resolution.]

Sincerely,

%s
%s
%s

Please draft a complete and professional demand letter following this structure. Use formal, authoritative language. The tone should be firm but professional. Cite relevant Omani legal authorities where applicable.`,
		param(p, "firm_name", "Legal Office"),
		draftDate(p),
		param(p, "addressee", "[Recipient Name and Address]"),
		param(p, "subject", "Demand for [Nature of Demand]"),
		param(p, "salutation", "Sir/Madam"),
		param(p, "facts", "Relevant factual background leading to this demand."),
		param(p, "demand", "Clearly state what action is being demanded."),
		param(p, "signature", "[Attorney Name]"),
		param(p, "title", "[Title]"),
		param(p, "firm_name", "[Firm Name]"),
	)
}

func contractPrompt(p map[string]string) string {
	return fmt.Sprintf(`Write a formal contract agreement based on the following parameters:

TITLE: %s

PARTIES:
%s

DATE: %s

RECITALS:
[Background information explaining why the parties are entering into this agreement]

NOW THEREFORE, in consideration of the mutual covenants contained herein, the parties agree as follows:

AGREEMENT TERMS:
%s

SCOPE:
%s

TERM AND TERMINATION:
[Specify the duration of the agreement and conditions for termination]

COMPENSATION:
%s

REPRESENTATIONS AND WARRANTIES:
[Standard representations and warranties appropriate for this type of agreement under Omani law]

GOVERNING LAW:
[Specify that the agreement is governed by the laws of Oman]

DISPUTE RESOLUTION:
[Specify how disputes will be resolved, e.g., courts of Oman, arbitration]

MISCELLANEOUS PROVISIONS:
[Include standard miscellaneous provisions appropriate under Omani law]

SIGNATURES:

________________________            ________________________
%s                      %s

Date: ___________________            Date: ___________________

Please draft a complete and professional contract agreement following this structure. Use formal legal language appropriate for binding agreements. Ensure the agreement complies with Omani legal requirements for contracts.`,
		param(p, "title", "AGREEMENT"),
		param(p, "parties", "1. [First Party Name and Details]\n2. [Second Party Name and Details]"),
		draftDate(p),
		param(p, "terms", "Outline the key terms of the agreement."),
		param(p, "scope", "Define the scope of the agreement."),
		param(p, "compensation", "Detail any payment or compensation structure."),
		param(p, "party1_name", "First Party"),
		param(p, "party2_name", "Second Party"),
	)
}

// buildTranslatePrompt assembles the legal translation prompt. An empty
// source triggers script detection.
func buildTranslatePrompt(text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty text")
	}
	if target == "" {
		target = "Arabic"
	}
	if source == "" {
		source = detectLanguage(text)
	}
	if source == target {
		return "", fmt.Errorf("source and target language are both %s", target)
	}

	preamble := "You are a professional legal translator specializing in Omani legal documents.\n\n"
	switch {
	case target == "Arabic" && source == "English":
		return preamble + "Translate the following English text to Arabic. Ensure the translation is accurate, natural-sounding Arabic with correct legal terminology:\n\n" + text, nil
	case target == "English" && source == "Arabic":
		return preamble + "Translate the following Arabic text to English. Ensure the translation is accurate, natural-sounding English with correct legal terminology:\n\n" + text, nil
	default:
		return preamble + fmt.Sprintf("Translate this text from %s to %s: %s", source, target, text), nil
	}
}

// detectLanguage reports "Arabic" when the text is mostly Arabic script,
// otherwise "English".
func detectLanguage(text string) string {
	arabic := 0
	total := 0
	for _, r := range text {
		total++
		if r >= 0x0600 && r <= 0x06FF {
			arabic++
		}
	}
	if total > 0 && arabic > total/2 {
		return "Arabic"
	}
	return "English"
}
