package repository

import (
	"context"
	"sort"

	"cloud.google.com/go/firestore"

	"microtask/internal/domain/entity"
	"microtask/internal/domain/repository"
)

type firestoreTaskRepository struct {
	client *firestore.Client
}

func NewFirestoreTaskRepository(client *firestore.Client) repository.TaskRepository {
	return &firestoreTaskRepository{
		client: client,
	}
}

func (r *firestoreTaskRepository) GetByID(ctx context.Context, id string) (*entity.Task, error) {
	return getDoc[entity.Task](ctx, r.client.Collection(tasksCollection).Doc(id))
}

// ListAvailable sorts in process: Firestore cannot order by completion_date
// while filtering required_workers with an inequality.
func (r *firestoreTaskRepository) ListAvailable(ctx context.Context, limit, offset int) ([]*entity.Task, int64, error) {
	query := r.client.Collection(tasksCollection).Where("required_workers", ">", 0)
	tasks, err := collect[entity.Task](query.Documents(ctx))
	if err != nil {
		return nil, 0, err
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		return tasks[i].CompletionDate.After(tasks[j].CompletionDate)
	})
	items, total := page(tasks, limit, offset)
	return items, total, nil
}

func (r *firestoreTaskRepository) ListByBuyer(ctx context.Context, buyerEmail string, limit, offset int) ([]*entity.Task, int64, error) {
	query := r.client.Collection(tasksCollection).
		Where("buyerEmail", "==", buyerEmail).
		OrderBy("completion_date", firestore.Desc)
	return paged[entity.Task](ctx, query, limit, offset)
}

func (r *firestoreTaskRepository) All(ctx context.Context) ([]*entity.Task, error) {
	return collect[entity.Task](r.client.Collection(tasksCollection).Documents(ctx))
}

func (r *firestoreTaskRepository) UpdateDetails(ctx context.Context, task *entity.Task) error {
	ref := r.client.Collection(tasksCollection).Doc(task.ID)
	_, err := ref.Update(ctx, []firestore.Update{
		{Path: "task_title", Value: task.Title},
		{Path: "task_detail", Value: task.Detail},
		{Path: "submission_info", Value: task.SubmissionInfo},
		{Path: "task_image_url", Value: task.ImageURL},
		{Path: "completion_date", Value: task.CompletionDate},
		{Path: "updatedAt", Value: task.UpdatedAt},
	})
	return notFound(err, ref.Path)
}
