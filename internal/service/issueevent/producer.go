// Package issueevent turns issue lifecycle actions into notification fan-outs.
package issueevent

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"issuehub/internal/domain"
	"issuehub/internal/repository"
	"issuehub/internal/service/notification"
)

type Producer interface {
	Publish(ctx context.Context, actorID uuid.UUID, action domain.IssueAction) (domain.DispatchSummary, error)
}

type producer struct {
	itemRepo   repository.ItemRepository
	userRepo   repository.UserRepository
	dispatcher notification.Dispatcher
}

func NewProducer(itemRepo repository.ItemRepository, userRepo repository.UserRepository, dispatcher notification.Dispatcher) Producer {
	return &producer{
		itemRepo:   itemRepo,
		userRepo:   userRepo,
		dispatcher: dispatcher,
	}
}

func (p *producer) Publish(ctx context.Context, actorID uuid.UUID, action domain.IssueAction) (domain.DispatchSummary, error) {
	if !isIssueAction(action.Action) {
		return domain.DispatchSummary{}, fmt.Errorf("%w: unsupported issue action %q", domain.ErrValidation, action.Action)
	}

	issue, err := p.itemRepo.GetIssue(ctx, action.IssueID)
	if err != nil {
		return domain.DispatchSummary{}, err
	}

	actorName := "Someone"
	actor, err := p.userRepo.GetByID(ctx, actorID)
	if err != nil {
		log.WithFields(log.Fields{
			"user_id": actorID,
			"error":   err,
		}).Warn("unable to load actor profile")
	} else if actor != nil {
		actorName = actor.FullName
	}

	recipients := without(recipientsFor(issue, action), actorID)
	event := buildEvent(issue, action, actorName)

	return p.dispatcher.FanOut(ctx, event, recipients), nil
}

func isIssueAction(t domain.EventType) bool {
	switch t {
	case domain.EventIssueCreated, domain.EventIssueClosed, domain.EventComment,
		domain.EventCollaboratorAdd, domain.EventAssigned, domain.EventTaskAssigned:
		return true
	}
	return false
}

func recipientsFor(issue *domain.Issue, action domain.IssueAction) []uuid.UUID {
	switch action.Action {
	case domain.EventIssueCreated:
		return issue.CollaboratorIDs
	case domain.EventIssueClosed, domain.EventComment:
		ids := []uuid.UUID{issue.CreatedBy}
		ids = append(ids, issue.AssigneeIDs...)
		return append(ids, issue.CollaboratorIDs...)
	default:
		return action.TargetUserIDs
	}
}

func without(ids []uuid.UUID, exclude uuid.UUID) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if id != exclude {
			out = append(out, id)
		}
	}
	return out
}

func buildEvent(issue *domain.Issue, action domain.IssueAction, actor string) domain.NotificationEvent {
	id := issue.ID
	event := domain.NotificationEvent{
		Type:         action.Action,
		Link:         issue.Link(),
		Priority:     domain.PriorityFromDomain(issue.Priority),
		SubjectRef:   &id,
		SubjectTitle: issue.Title,
		Actor:        actor,
	}

	switch action.Action {
	case domain.EventIssueCreated:
		event.Title = fmt.Sprintf("New issue: %s", issue.Title)
		event.Message = fmt.Sprintf("%s opened %q.", actor, issue.Title)
	case domain.EventIssueClosed:
		event.Title = fmt.Sprintf("Issue closed: %s", issue.Title)
		event.Message = fmt.Sprintf("%s closed %q.", actor, issue.Title)
	case domain.EventComment:
		event.Title = fmt.Sprintf("New comment on %s", issue.Title)
		event.Message = action.Comment
		if event.Message == "" {
			event.Message = fmt.Sprintf("%s commented on %q.", actor, issue.Title)
		}
	case domain.EventCollaboratorAdd:
		event.Title = fmt.Sprintf("Added as collaborator: %s", issue.Title)
		event.Message = fmt.Sprintf("%s added you as a collaborator on %q.", actor, issue.Title)
	case domain.EventAssigned:
		event.Title = fmt.Sprintf("Assigned to you: %s", issue.Title)
		event.Message = fmt.Sprintf("%s assigned %q to you.", actor, issue.Title)
	case domain.EventTaskAssigned:
		event.Title = fmt.Sprintf("New task on %s", issue.Title)
		event.Message = fmt.Sprintf("%s assigned you a task on %q.", actor, issue.Title)
	}
	return event
}
