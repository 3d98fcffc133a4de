package flow

import "github.com/liuzz10/gui-agent-banking-assistant/internal/models"

// Built-in flow definitions for the web banking demo. The registry treats
// these as pure configuration; a flow-definition file can override any of
// them at startup (see flowfile.go).

// Step-level system prompts for free-form follow-up chat.
const (
	clickETransferTabPrompt = `You are helping the user transfer money. Guide the user to click the "e-Transfer" tab on the top right of the website. The button is highlighted in yellow and labeled "e-Transfer". Do not exceed 80 characters in your reply. Do not exceed 1 sentence.`

	pickRecipientPrompt = `You are helping the user transfer money. Guide the user through selecting the intended recipient on this page: first whether the recipient is already listed, then which contact to pick. Keep your reply short and easy to understand. Do not exceed 2 sentences.`

	enterAmountPrompt = `The user is on the page to e-transfer money to a recipient. Guide the user to look for "From Account" to choose which account to transfer money from, then enter the amount they want to send, then click "Continue". Keep your reply short and easy to understand. Do not exceed 4 sentences.`

	confirmTransferPrompt = `The user is on the last step to e-transfer money. Guide the user to double check the information and click "Confirm" to continue, or "Cancel" to cancel the transaction. Keep your reply short and easy to understand. Do not exceed 2 sentences.`

	payBillsPrompt = `You are helping the user pay a bill. Guide the user to pick the biller, enter the amount, and confirm the payment. Keep your reply short and easy to understand. Do not exceed 3 sentences.`

	checkBalancePrompt = `You are helping the user check their account balances on this page. Answer questions about where to find each balance. Keep your reply short and easy to understand. Do not exceed 2 sentences.`
)

// DefaultRegistry builds the immutable catalog of built-in flows for both
// personas.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	for _, persona := range []models.Persona{models.PersonaTutor, models.PersonaTeller} {
		reg.Register(models.IntentETransfer, persona, eTransferFlow(persona))
		reg.Register(models.IntentPayBills, persona, payBillsFlow(persona))
		reg.Register(models.IntentCheckBalance, persona, checkBalanceFlow(persona))
	}
	return reg
}

// guideOrAct returns a highlight action for the tutor persona and the literal
// action for the teller persona: the tutor tells the user where to act, the
// teller acts on the user's behalf.
func guideOrAct(persona models.Persona, kind models.UIActionKind, selector string) models.UIAction {
	if persona == models.PersonaTeller {
		return models.UIAction{Kind: kind, Selector: selector}
	}
	return models.UIAction{Kind: models.UIActionHighlight, Selector: selector}
}

func eTransferFlow(persona models.Persona) Flow {
	openTabReply := "Click the 'e-Transfer' tab on the top right of the page."
	confirmReply := "Please double-check the information. Should I go ahead with the transfer?"
	if persona == models.PersonaTeller {
		openTabReply = "Taking you to the e-Transfer page."
	}

	f := Flow{
		"index.html": {
			Prompt: clickETransferTabPrompt,
			Desc:   "Opened the e-Transfer tab",
			Substeps: []Substep{
				{
					Name:                "open_etransfer_tab",
					Handler:             models.HandlerDirect,
					ImmediateReply:      openTabReply,
					CompletionCondition: "etransfer_tab_opened",
					Actions:             []models.UIAction{guideOrAct(persona, models.UIActionClick, "#nav-transfer")},
				},
			},
		},
		"etransfer.html": {
			Prompt: pickRecipientPrompt,
			Desc:   "Selected the recipient",
			Substeps: []Substep{
				{
					Name:                "check_recipient_listed",
					Handler:             models.HandlerYesNo,
					ImmediateReply:      "Is the person you want to send money to already listed on this page?",
					CompletionCondition: "recipient_known",
					Options: map[string]OptionSpec{
						"yes": {
							Description: "Great — what is the recipient's name?",
							Actions:     []models.UIAction{{Kind: models.UIActionHighlight, Selector: "#contact-list"}},
						},
						"no": {
							Description: "Please add the recipient first.",
							Actions:     []models.UIAction{guideOrAct(persona, models.UIActionClick, "#add-contact-button")},
						},
					},
				},
				{
					Name:                "pick_recipient",
					Handler:             models.HandlerFill,
					ImmediateReply:      "Who would you like to send money to?",
					CompletionCondition: "recipient_selected",
					Field:               "recipient",
					Constraint:          "the recipient's name, letters only",
					Actions:             []models.UIAction{{Kind: models.UIActionFill, Selector: "#contact-search"}},
				},
			},
		},
		"confirm_transfer.html": {
			Prompt: confirmTransferPrompt,
			Desc:   "Clicked 'Confirm'",
			Substeps: []Substep{
				{
					Name:                "confirm_transfer",
					Handler:             models.HandlerConfirmation,
					ImmediateReply:      confirmReply,
					CompletionCondition: "transfer_confirmed",
					ActionDescription:   "complete the e-transfer",
					Options: map[string]OptionSpec{
						"yes": {Description: "Confirming your transfer now."},
					},
					Actions: []models.UIAction{guideOrAct(persona, models.UIActionClick, "#confirm-button")},
				},
			},
		},
		"success.html": {
			Substeps: []Substep{
				{
					Name:                "transfer_complete",
					Handler:             models.HandlerDirect,
					ImmediateReply:      "Your transfer is complete! Is there anything else I can help you with?",
					CompletionCondition: "transfer_receipt_seen",
				},
			},
		},
	}

	if persona == models.PersonaTeller {
		// The teller collects account and amount conversationally, fills the
		// form itself, and submits after an explicit confirmation.
		f["send_to_alex.html"] = &Step{
			Prompt: enterAmountPrompt,
			Desc:   "Entered amount and clicked 'Continue'",
			Substeps: []Substep{
				{
					Name:                "collect_transfer_details",
					Handler:             models.HandlerCollectThenAct,
					ImmediateReply:      "Which account should the money come from, and how much would you like to send?",
					CompletionCondition: "transfer_details_submitted",
					ActionDescription:   "send the transfer details",
					RequiredFields:      []string{"account", "amount"},
					FieldActions: map[string]models.UIAction{
						"account": {Kind: models.UIActionSelect, Selector: "#from-account"},
						"amount":  {Kind: models.UIActionFill, Selector: "#amount"},
					},
					FinalActions: []models.UIAction{{Kind: models.UIActionClick, Selector: "#send-button"}},
				},
			},
		}
	} else {
		f["send_to_alex.html"] = &Step{
			Prompt: enterAmountPrompt,
			Desc:   "Entered amount and clicked 'Continue'",
			Substeps: []Substep{
				{
					Name:                "choose_account",
					Handler:             models.HandlerSelection,
					ImmediateReply:      "Please choose the account you want to transfer from.",
					CompletionCondition: "account_chosen",
					Options: map[string]OptionSpec{
						"chequing": {
							Description: "Chequing it is.",
							Actions:     []models.UIAction{{Kind: models.UIActionSelect, Selector: "#from-account", Value: "chequing"}},
						},
						"savings": {
							Description: "Savings it is.",
							Actions:     []models.UIAction{{Kind: models.UIActionSelect, Selector: "#from-account", Value: "savings"}},
						},
					},
				},
				{
					Name:                "enter_amount",
					Handler:             models.HandlerFill,
					ImmediateReply:      "Now enter the amount and click 'Continue'.",
					CompletionCondition: "amount_entered",
					Field:               "amount",
					Constraint:          "numbers only",
					Actions: []models.UIAction{
						{Kind: models.UIActionFill, Selector: "#amount"},
						{Kind: models.UIActionHighlight, Selector: "#send-button"},
					},
				},
			},
		}
	}

	return f
}

func payBillsFlow(persona models.Persona) Flow {
	openTabReply := "Click the 'Pay Bills' tab at the top of the page."
	if persona == models.PersonaTeller {
		openTabReply = "Taking you to the bill payment page."
	}
	return Flow{
		"index.html": {
			Desc: "Opened the Pay Bills tab",
			Substeps: []Substep{
				{
					Name:                "open_bills_tab",
					Handler:             models.HandlerDirect,
					ImmediateReply:      openTabReply,
					CompletionCondition: "bills_tab_opened",
					Actions:             []models.UIAction{guideOrAct(persona, models.UIActionClick, "#nav-bills")},
				},
			},
		},
		"paybills.html": {
			Prompt: payBillsPrompt,
			Desc:   "Paid the bill",
			Substeps: []Substep{
				{
					Name:                "choose_biller",
					Handler:             models.HandlerClassification,
					ImmediateReply:      "Which bill would you like to pay — hydro, credit card, or internet?",
					CompletionCondition: "biller_chosen",
					Options: map[string]OptionSpec{
						"hydro": {
							Description: "Paying your hydro bill.",
							Actions:     []models.UIAction{{Kind: models.UIActionSelect, Selector: "#biller", Value: "hydro"}},
						},
						"credit_card": {
							Description: "Paying your credit card.",
							Actions:     []models.UIAction{{Kind: models.UIActionSelect, Selector: "#biller", Value: "credit_card"}},
						},
						"internet": {
							Description: "Paying your internet bill.",
							Actions:     []models.UIAction{{Kind: models.UIActionSelect, Selector: "#biller", Value: "internet"}},
						},
					},
				},
				{
					Name:                "enter_bill_amount",
					Handler:             models.HandlerFill,
					ImmediateReply:      "How much would you like to pay?",
					CompletionCondition: "bill_amount_entered",
					Field:               "amount",
					Constraint:          "numbers only",
					Actions:             []models.UIAction{{Kind: models.UIActionFill, Selector: "#bill-amount"}},
				},
				{
					Name:                "confirm_payment",
					Handler:             models.HandlerConfirmation,
					ImmediateReply:      "Ready to pay. Should I go ahead?",
					CompletionCondition: "bill_payment_confirmed",
					ActionDescription:   "pay this bill",
					Actions:             []models.UIAction{guideOrAct(persona, models.UIActionClick, "#pay-button")},
				},
			},
		},
	}
}

func checkBalanceFlow(persona models.Persona) Flow {
	openTabReply := "Click the 'Accounts' tab at the top of the page."
	if persona == models.PersonaTeller {
		openTabReply = "Taking you to your accounts."
	}
	return Flow{
		"index.html": {
			Desc: "Opened the Accounts tab",
			Substeps: []Substep{
				{
					Name:                "open_accounts_tab",
					Handler:             models.HandlerDirect,
					ImmediateReply:      openTabReply,
					CompletionCondition: "accounts_tab_opened",
					Actions:             []models.UIAction{guideOrAct(persona, models.UIActionClick, "#nav-accounts")},
				},
			},
		},
		"accounts.html": {
			Prompt: checkBalancePrompt,
			Desc:   "Viewed the balance",
			Substeps: []Substep{
				{
					Name:                "choose_account_to_view",
					Handler:             models.HandlerSelection,
					ImmediateReply:      "Which account balance would you like to see — chequing or savings?",
					CompletionCondition: "balance_viewed",
					Options: map[string]OptionSpec{
						"chequing": {
							Description: "Here is your chequing balance.",
							Actions:     []models.UIAction{{Kind: models.UIActionHighlight, Selector: "#balance-chequing"}},
						},
						"savings": {
							Description: "Here is your savings balance.",
							Actions:     []models.UIAction{{Kind: models.UIActionHighlight, Selector: "#balance-savings"}},
						},
					},
				},
			},
		},
	}
}
