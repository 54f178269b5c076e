package service

import (
	"context"
	"log"
	"net/url"
	"regexp"
	"strings"

	"comanda/order-svc/internal/domain"
	"comanda/order-svc/internal/extract"
)

// cashierMarker separates the client-facing part of an assistant reply from
// the blocks meant for the cashier's phone.
const cashierMarker = "### CAJA"

const fallbackReply = "Gracias por tu mensaje. Un miembro de nuestro equipo te responderá pronto."

var billRequestPattern = regexp.MustCompile(`(?mi)^\s*Acción:\s*.*ha pedido la cuenta\.?\s*$`)

type ConversationResult struct {
	Processed bool   `json:"processed"`
	Error     string `json:"error,omitempty"`
	Reply     string `json:"reply,omitempty"`
	OrderID   string `json:"order_id,omitempty"`
}

// ConversationService glues the messaging channel, the conversational agent
// and the order pipeline together for one inbound message.
type ConversationService struct {
	messaging MessagingClient
	assistant AssistantClient
	branches  BranchRepository
	customers CustomerRepository
	tables    *TableService
	processor *OrderProcessingService
}

func NewConversationService(
	messaging MessagingClient,
	assistant AssistantClient,
	branches BranchRepository,
	customers CustomerRepository,
	tables *TableService,
	processor *OrderProcessingService,
) *ConversationService {
	return &ConversationService{
		messaging: messaging,
		assistant: assistant,
		branches:  branches,
		customers: customers,
		tables:    tables,
		processor: processor,
	}
}

// HandleIncoming processes one channel webhook delivery. Pipeline failures
// degrade to a canned reply; the customer never sees a raw internal error.
func (s *ConversationService) HandleIncoming(ctx context.Context, form url.Values) (*ConversationResult, error) {
	msg := s.messaging.ProcessIncoming(form)
	log.Printf("[order-svc] message from %s to %s", msg.From, msg.To)

	branch, err := s.branches.GetBranchByAssistantNumber(msg.To)
	if err != nil || branch == nil {
		log.Printf("[order-svc] no branch for inbound number %s", msg.To)
		return &ConversationResult{Processed: false, Error: "branch not found"}, nil
	}
	if branch.Balance <= 0 {
		log.Printf("[order-svc] branch %s has no balance", branch.Name)
		return &ConversationResult{Processed: false, Error: "branch has no balance"}, nil
	}

	isAdmin := msg.From == branch.PhoneNumberCashier

	customer, err := s.findOrCreateCustomer(msg.From, msg.ProfileName, isAdmin)
	if err != nil {
		return nil, err
	}

	if branch.AssistantID == "" {
		s.send(customer.Phone, fallbackReply, branch.PhoneNumberAssistant)
		return &ConversationResult{Processed: true, Reply: fallbackReply}, nil
	}

	// Table context rides along so the agent can answer availability
	// questions without another round trip.
	conversationContext := ""
	tableCtx, err := s.tables.ProcessTableMention(msg.Body, branch.ID)
	if err == nil && tableCtx.HasTableMention {
		conversationContext = tableCtx.Message
	}

	reply, threadID, err := s.assistant.SendMessage(ctx, branch.AssistantID, customer.ThreadID, msg.Body, conversationContext)
	if err != nil {
		log.Printf("[order-svc] assistant failure: %v", err)
		s.send(customer.Phone, fallbackReply, branch.PhoneNumberAssistant)
		return &ConversationResult{Processed: true, Reply: fallbackReply}, nil
	}

	if !isAdmin && threadID != "" && threadID != customer.ThreadID {
		if err := s.customers.UpdateCustomerThread(customer.Phone, threadID); err != nil {
			log.Printf("[order-svc] failed to store thread for %s: %v", customer.Phone, err)
		}
		customer.ThreadID = threadID
	}

	if !strings.Contains(reply, cashierMarker) {
		s.send(customer.Phone, reply, branch.PhoneNumberAssistant)
		return &ConversationResult{Processed: true, Reply: reply}, nil
	}

	clientPart, cashierBlocks := splitMessages(reply)

	if clientPart != "" {
		s.send(customer.Phone, clientPart, branch.PhoneNumberAssistant)
	}
	for _, block := range cashierBlocks {
		s.send(branch.PhoneNumberCashier, block, branch.PhoneNumberAssistant)
	}

	result := &ConversationResult{Processed: true, Reply: clientPart}

	if hasRequestedBill(cashierBlocks) {
		processed, err := s.saveOrderFromConversation(ctx, branch, customer, clientPart, tableCtx)
		if err != nil {
			log.Printf("[order-svc] failed to save order for %s: %v", customer.Phone, err)
		} else if processed != nil && processed.Success {
			result.OrderID = processed.Order.ID
		}
		// Fresh conversation for the next visit.
		if err := s.customers.UpdateCustomerThread(customer.Phone, ""); err != nil {
			log.Printf("[order-svc] failed to reset thread for %s: %v", customer.Phone, err)
		}
	}

	return result, nil
}

// ResolveOrderFromText is the direct entry point: extract items from free
// text and run them through the assembler.
func (s *ConversationService) ResolveOrderFromText(ctx context.Context, text, branchID, customerPhone string) (*ProcessedOrder, error) {
	items := extract.Items(text)
	if len(items) == 0 {
		return failed([]string{"No se detectaron productos en el mensaje"}), nil
	}

	drafts := make([]DraftItem, len(items))
	for i, item := range items {
		drafts[i] = DraftItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	orderType := domain.Takeaway
	tableID := ""
	if tableCtx, err := s.tables.ProcessTableMention(text, branchID); err == nil && tableCtx.ValidatedTable != nil && tableCtx.Error == "" {
		orderType = domain.DineIn
		tableID = tableCtx.ValidatedTable.ID
	}

	return s.processor.ProcessOrderConfirmation(ctx, OrderConfirmation{
		CustomerPhone: customerPhone,
		BranchID:      branchID,
		TableID:       tableID,
		OrderType:     orderType,
		Items:         drafts,
	})
}

func (s *ConversationService) saveOrderFromConversation(ctx context.Context, branch *domain.Branch, customer *domain.Customer, clientMessage string, tableCtx *TableContext) (*ProcessedOrder, error) {
	items := extract.Items(clientMessage)
	if len(items) == 0 {
		log.Printf("[order-svc] bill requested but no items found in summary for %s", customer.Phone)
		return nil, nil
	}

	drafts := make([]DraftItem, len(items))
	for i, item := range items {
		drafts[i] = DraftItem{
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
		}
	}

	orderType := domain.Takeaway
	tableID := ""
	if tableCtx != nil && tableCtx.ValidatedTable != nil && tableCtx.Error == "" {
		orderType = domain.DineIn
		tableID = tableCtx.ValidatedTable.ID
	}

	return s.processor.ProcessOrderConfirmation(ctx, OrderConfirmation{
		CustomerPhone:     customer.Phone,
		BranchID:          branch.ID,
		TableID:           tableID,
		OrderType:         orderType,
		Items:             drafts,
		AssistantThreadID: customer.ThreadID,
	})
}

func (s *ConversationService) findOrCreateCustomer(phone, profileName string, isAdmin bool) (*domain.Customer, error) {
	customer, err := s.customers.GetCustomerByPhone(phone)
	if err != nil {
		return nil, err
	}
	if customer != nil {
		return customer, nil
	}

	name := profileName
	if name == "" {
		name = "Cliente"
	}
	customer = &domain.Customer{Name: name, Phone: phone, IsAdmin: isAdmin}
	if err := s.customers.CreateCustomer(customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *ConversationService) send(to, body, from string) {
	if _, err := s.messaging.Send(to, body, from); err != nil {
		log.Printf("[order-svc] failed to send message to %s: %v", to, err)
	}
}

// splitMessages separates an assistant reply into the client-facing part
// and the cashier blocks delimited by the marker.
func splitMessages(reply string) (string, []string) {
	parts := strings.Split(reply, cashierMarker)
	client := strings.TrimSpace(parts[0])

	var cashier []string
	for _, part := range parts[1:] {
		if block := strings.TrimSpace(part); block != "" {
			cashier = append(cashier, block)
		}
	}
	return client, cashier
}

func hasRequestedBill(blocks []string) bool {
	for _, block := range blocks {
		normalized := strings.ReplaceAll(block, "\r\n", "\n")
		if billRequestPattern.MatchString(normalized) {
			return true
		}
	}
	return false
}
